package components

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	assert.Equal(t, `{"nama":"Budi"}`, JSON(map[string]string{"nama": "Budi"}))
	assert.Equal(t, "{}", JSON(make(chan int)))
}

func TestJSONScript(t *testing.T) {
	var b strings.Builder
	err := JSONScript("letter-data", map[string]string{"isi": "</script><b>"}).Render(context.Background(), &b)
	require.NoError(t, err)

	out := b.String()
	assert.True(t, strings.HasPrefix(out, `<script type="application/json" id="letter-data">`))
	assert.Equal(t, 1, strings.Count(out, "</script>"), "embedded markup must stay escaped")
	assert.Contains(t, out, `\u003c/script\u003e`)
}
