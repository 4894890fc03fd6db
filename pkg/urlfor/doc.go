// Package urlfor generates URLs from route names and parameters.
//
// Routes are registered in a Table under a name. Actions registered through
// the framework router are named "controller#action"; any other route can be
// named explicitly:
//
//	table := urlfor.NewTable()
//	table.Add(urlfor.ActionName("posts", "show"), "/posts/{id}")
//	table.Add("post", "/posts/{id}")
//
// A Builder is created per request. It knows the current controller and
// action, so parameters only need to say what differs:
//
//	b := urlfor.NewBuilder(table, origin, "posts", "index")
//	b.URLFor(urlfor.Params{"action": "show", "id": 5})
//	// "https://example.com/posts/5"
//	b.URLFor(urlfor.Params{"action": "show", "id": 5, "only_path": true, "ref": "nav"})
//	// "/posts/5?ref=nav"
//
// Records with a route of their own implement Record:
//
//	func (p Post) RouteName() string { return "post" }
//	func (p Post) RouteKey() string  { return strconv.Itoa(p.ID) }
//
//	b.URLForRecord(post) // "https://example.com/posts/5"
package urlfor
