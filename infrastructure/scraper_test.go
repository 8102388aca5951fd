package infrastructure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nrro-site/domain"
)

const samplePage = `<!doctype html>
<html lang="es">
<head>
  <title>Ley Beckham para expatriados | NRRO</title>
  <meta name="description" content="Tributa al 24% como residente.">
  <meta name="viewport" content="width=device-width">
  <meta property="og:title" content="Ley Beckham">
  <link rel="canonical" href="https://nrro.es/ley-beckham">
  <link rel="alternate" hreflang="en" href="https://nrro.es/en/beckham-law">
  <link rel="alternate" hreflang="ca" href="https://nrro.es/ca/llei-beckham">
</head>
<body>
  <h1>Ley Beckham</h1>
  <h2>Requisitos</h2><h2>Plazos</h2>
  <p>Régimen especial de impatriados.</p>
  <img src="a.png" alt="Equipo"><img src="b.png">
  <a href="/contacto">Contacto</a>
  <a href="https://nrro.es/servicios">Servicios</a>
  <a href="https://www.agenciatributaria.es">AEAT</a>
  <a href="#top">Arriba</a>
  <a href="mailto:info@nrro.es">Email</a>
  <script>var hidden = "words that do not count";</script>
</body>
</html>`

func TestParsePage(t *testing.T) {
	u, _ := url.Parse("https://nrro.es/ley-beckham")
	snap, err := ParsePage(u, strings.NewReader(samplePage))
	require.NoError(t, err)

	assert.Equal(t, "Ley Beckham para expatriados | NRRO", snap.Title)
	assert.Equal(t, "Tributa al 24% como residente.", snap.MetaDescription)
	assert.Equal(t, "https://nrro.es/ley-beckham", snap.Canonical)
	assert.Equal(t, "es", snap.Lang)
	assert.Equal(t, []string{"Ley Beckham"}, snap.H1)
	assert.Equal(t, 2, snap.H2Count)
	assert.Equal(t, 2, snap.ImageCount)
	assert.Equal(t, 1, snap.ImagesMissingAlt)
	assert.Equal(t, 2, snap.InternalLinks)
	assert.Equal(t, 1, snap.ExternalLinks)
	assert.ElementsMatch(t, []string{"en", "ca"}, snap.Hreflangs)
	assert.Equal(t, "Ley Beckham", snap.OGTitle)
	assert.True(t, snap.HasViewport)
	assert.Greater(t, snap.WordCount, 0)
	assert.Less(t, snap.WordCount, 30)
}

func TestPageFetcherFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("<html><body>gone</body></html>"))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := NewPageFetcher(5*time.Second, 100, 10)

	snap, err := f.Fetch(context.Background(), srv.URL+"/ley-beckham")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, snap.StatusCode)
	assert.Equal(t, srv.URL+"/ley-beckham", snap.URL)

	snap, err = f.Fetch(context.Background(), srv.URL+"/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, snap.StatusCode)
}

func TestPageFetcherRejectsRelativeURL(t *testing.T) {
	f := NewPageFetcher(time.Second, 1, 1)
	_, err := f.Fetch(context.Background(), "/servicios")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.Fetch(context.Background(), "ftp://nrro.es/file")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
