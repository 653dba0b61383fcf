package httpserver

// errorPageHTML holds the built-in HTML bodies for the status codes this
// framework can emit on its own (as opposed to a handler's response),
// grounded on the teacher's pre-compiled status-line constants but
// extended with a body since those were plain status lines only.
// Server's dispatch sends only the 404 and 500 pages. A request that
// fails to parse closes the connection without any response, and a 401
// carries the Authenticator's own body; the 400, 401 and 405 entries
// have no caller in Server.
var errorPageHTML = map[int]string{
	400: "<html><body><h1>400 Bad Request</h1></body></html>",
	401: "<html><body><h1>401 Unauthorized</h1></body></html>",
	404: "<html><body><h1>404 Not Found</h1></body></html>",
	405: "<html><body><h1>405 Method Not Allowed</h1></body></html>",
	500: "<html><body><h1>500 Internal Server Error</h1></body></html>",
}

func errorPage(code int) string {
	if body, ok := errorPageHTML[code]; ok {
		return body
	}
	return "<html><body><h1>Error</h1></body></html>"
}
