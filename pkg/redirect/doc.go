// Package redirect resolves redirect targets into a URL and a status code.
//
// A Target is one of:
//
//	redirect.To("https://example.com/x") // absolute URL, used verbatim
//	redirect.To("/posts")                // path on the current host
//	redirect.Back()                      // the Referer header
//	redirect.Route(urlfor.Params{"action": "show", "id": 5})
//	redirect.Record(post)
//
// Resolve does not write anything. It only decides where to go:
//
//	res, err := redirect.Resolve(redirect.FromHTTP(r), builder, redirect.To("/login"),
//		redirect.WithStatus("see_other"))
//	if errors.Is(err, redirect.ErrRedirectBack) {
//		// no referrer, pick a fallback
//	}
//	http.Redirect(w, r, res.URL, res.Status)
//
// The status is 302 unless set. A "status" key in Route parameters wins over
// WithStatus; for every other target WithStatus applies.
package redirect
