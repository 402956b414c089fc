/*
Package apiclient is the bot-side SDK for the tasker API.

# Client vs Session

Client covers the unauthenticated Token Issuer endpoints and health probes.
Every request it sends is signed by a botsig.Transport:

	signer, _ := botsig.NewSigner(secret)
	client := apiclient.NewClient("http://localhost:8080", signer)
	pair, err := client.Login(ctx, "bot_service", password)

Session wraps a Client with a TokenSource and adds the bearer token to the
signed link and whoami calls:

	tokens, _ := apiclient.NewSessionManager(apiclient.SessionConfig{
		Issuer:   client,
		Cache:    apiclient.NewTokenCache(kv, "jwt:bot:", 300*time.Second),
		Username: "bot_service",
		Password: password,
	})
	session := client.Session(tokens)
	link, err := session.StartLink(ctx, "123456789")

# Token management

SessionManager.EnsureAccessToken returns a cached access token while its
embedded expiry is more than the leeway away. Otherwise one caller per
process (and, with a Lease, one per deployment) refreshes or logs in while
the others wait and then read the new token from the cache. When both
refresh and login fail the error wraps ErrSessionUnavailable and callers
must abort.
*/
package apiclient
