package components

import (
	"context"
	"encoding/json"
	"html"
	"io"
	"log"

	"github.com/a-h/templ"
)

// JSON marshals an object to a JSON string, returning "{}" on error.
// encoding/json escapes <, > and & so the result is safe inside a script element.
func JSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("[WARNING] Error marshaling JSON: %v", err)
		return "{}"
	}
	return string(b)
}

// JSONScript embeds a value as an application/json script element that page
// scripts read with JSON.parse
func JSONScript(id string, v interface{}) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<script type="application/json" id="`+html.EscapeString(id)+`">`+JSON(v)+`</script>`)
		return err
	})
}
