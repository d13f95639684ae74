package mocker

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScope(t *testing.T) {
	assert.Same(t, Default(), Default(), "the shared scope is a singleton")

	Start()
	defer Stop(true)

	p := Get("https://example.org/shared").
		WithAlias("shared").
		WithBody("from the shared scope").
		MustRegister()

	resp, err := http.Get("https://example.org/shared")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "from the shared scope", string(body))

	assert.Same(t, p, Pattern("shared"))
	assert.Len(t, Calls(), 1)
	assert.NoError(t, AllCalled())
}
