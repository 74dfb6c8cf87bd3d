package handler

import "github.com/labstack/echo/v4"

// ctxUsername extracts the username injected by the Auth middleware. An empty
// string means the claim was absent; the activity trail then records an
// anonymous actor rather than failing the request.
func ctxUsername(c echo.Context) string {
	username, _ := c.Get("username").(string)
	return username
}
