package relay

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fatih/color"
)

var methodColors = map[string]*color.Color{
	http.MethodGet:    color.New(color.FgGreen),
	http.MethodPost:   color.New(color.FgCyan),
	http.MethodPut:    color.New(color.FgYellow),
	http.MethodPatch:  color.New(color.FgMagenta),
	http.MethodDelete: color.New(color.FgRed),
}

// PrintRoutes writes the contract route table for startup diagnostics.
// Method names are color-coded when the writer supports it.
func (r *Router) PrintRoutes(w io.Writer) {
	for _, route := range r.Routes() {
		ct := route.Contract
		for _, method := range ct.AllowedMethods {
			fmt.Fprintf(w, "%s %-40s -> %s%s\n",
				colorMethod(method), route.Pattern.Raw(), ct.HandlerName, routeFlags(ct))
		}
	}
}

func colorMethod(method string) string {
	c, ok := methodColors[method]
	if !ok {
		return fmt.Sprintf("%-8s", method)
	}
	return c.Sprintf("%-8s", method)
}

func routeFlags(ct *Contract) string {
	var flags []string
	if ct.LoginRequired {
		flags = append(flags, "auth")
	}
	if !ct.IncludeInDocument {
		flags = append(flags, "undocumented")
	}
	if len(flags) == 0 {
		return ""
	}
	return " [" + strings.Join(flags, ",") + "]"
}
