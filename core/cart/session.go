package cart

import (
	"context"

	"github.com/JABSONA85/gamevault-hub/validate"
	"github.com/alexedwards/scs/v2"
)

const sessionKey = "cart_id"

// Key is the durable-storage key holding the snapshot of cart id.
func Key(id string) string {
	return "cart:" + id
}

// ID returns the session's cart identifier, minting and storing one on
// first use. The id lives in the session data, so it survives login and
// works for anonymous shoppers alike.
func ID(ctx context.Context, session *scs.SessionManager) string {
	id := session.GetString(ctx, sessionKey)
	if id == "" {
		id = validate.GenerateID()
		session.Put(ctx, sessionKey, id)
	}
	return id
}
