// Package cookie reads and writes HTTP cookies with shared attributes, plus
// signed cookies, encrypted cookies and flash messages.
//
// Plain cookies work without a secret:
//
//	m := cookie.New()
//	_ = m.Set(w, "theme", "dark", 86400)
//	theme, err := m.Get(r, "theme")
//
// Signed and encrypted cookies need a secret of at least 32 bytes:
//
//	m := cookie.New(cookie.WithSecret(os.Getenv("COOKIE_SECRET")))
//	_ = m.SetSigned(w, "csrf", token, 0)     // readable, tamper-evident
//	_ = m.SetEncrypted(w, "prefs", data, 0)  // opaque to the client
//
// Both bind the value to the cookie name, so a value issued under one name
// is rejected under another. Without a secret they return ErrNoSecret.
//
// # Flash
//
// Flash messages survive exactly one redirect:
//
//	f := m.LoadFlash(r)
//	f.Set("notice", "Post created")
//	_ = m.SaveFlash(w, f)
//
//	// next request
//	f := m.LoadFlash(r)
//	f.Get("notice") // "Post created"
//
// Now sets a message for the current request only, and Keep carries
// delivered messages over once more.
package cookie
