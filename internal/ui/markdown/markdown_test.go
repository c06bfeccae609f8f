package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r, err := New(40, "notty")
	require.NoError(t, err)
	require.Equal(t, 40, r.Width())

	out, err := r.Render("# Keys\n\n- **a** add a skill\n")
	require.NoError(t, err)
	require.Contains(t, out, "Keys")
	require.Contains(t, out, "add a skill")
}
