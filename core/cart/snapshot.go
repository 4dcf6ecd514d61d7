package cart

import (
	"encoding/json"
	"fmt"
)

// Encode serializes the cart's lines for durable storage. Only the lines
// are stored; the total is derived again on load.
func Encode(c Cart) (string, error) {
	b, err := json.Marshal(c.Lines)
	if err != nil {
		return "", fmt.Errorf("encoding cart snapshot: %w", err)
	}
	return string(b), nil
}

// Decode rebuilds a cart from a stored snapshot.
func Decode(snapshot string) (Cart, error) {
	var lines []Line
	if err := json.Unmarshal([]byte(snapshot), &lines); err != nil {
		return Cart{}, fmt.Errorf("decoding cart snapshot: %w", err)
	}
	return Load(lines), nil
}
