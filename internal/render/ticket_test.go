package render

import (
	"bytes"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	// empty temp dir: forces the builtin-face fallback so tests don't
	// depend on fonts being installed
	return NewRenderer(t.TempDir(), log)
}

func TestTicket_ProducesPNG(t *testing.T) {
	r := newTestRenderer(t)

	data, err := r.Ticket("**Comprobante de Pago**\n\nCliente: Maria Lopez\n------------------------------------------\nTOTAL: $3.000,00")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, canvasWidth, img.Bounds().Dx())
	assert.Equal(t, canvasHeight, img.Bounds().Dy())
}

func TestTicket_TruncatesInsteadOfFailing(t *testing.T) {
	r := newTestRenderer(t)

	long := strings.Repeat("line of receipt text\n", 200)
	data, err := r.Ticket(long)
	require.NoError(t, err)

	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
}

func TestTicket_EmptyInput(t *testing.T) {
	r := newTestRenderer(t)

	data, err := r.Ticket("")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
