package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nrro-site/domain"
)

func TestDecodeNotification(t *testing.T) {
	n, err := DecodeNotification([]byte(`{"template":"lead_confirmation","to":["a@example.com"],"locale":"en","data":{"name":"A"}}`))
	require.NoError(t, err)
	assert.Equal(t, domain.TemplateLeadConfirmation, n.Template)
	assert.Equal(t, domain.LocaleEN, n.Locale)
	assert.Equal(t, "A", n.Data["name"])

	_, err = DecodeNotification([]byte(`{"template":"lead_confirmation"}`))
	assert.Error(t, err)

	_, err = DecodeNotification([]byte(`not json`))
	assert.Error(t, err)
}
