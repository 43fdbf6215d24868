package httpx

import "net/http"

// pageShell is the single HTML document behind every navigation route.
// The client application hydrates it and renders the actual page; the
// server's job at these paths is only the gate decision that already ran
// in the middleware chain.
const pageShell = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>SVA UTD Portal</title>
<link rel="stylesheet" href="/static/app.css">
</head>
<body>
<div id="root"></div>
<script src="/static/app.js" defer></script>
</body>
</html>
`

// servePageShell serves the application shell for navigation requests.
func servePageShell(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(pageShell))
}
