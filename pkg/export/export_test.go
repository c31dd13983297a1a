package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Name", "Status"},
		Rows: []map[string]string{
			{"Name": "Alan Kay", "Status": "Approved"},
			{"Name": "Barbara Liskov"},
		},
	}
}

func TestCSV(t *testing.T) {
	content, err := CSV(sampleDataset())
	require.NoError(t, err)

	assert.Equal(t, "Name,Status\nAlan Kay,Approved\nBarbara Liskov,\n", string(content))
}

func TestCSVRequiresHeaders(t *testing.T) {
	_, err := CSV(Dataset{})
	assert.Error(t, err)
}

func TestPDF(t *testing.T) {
	content, err := PDF(sampleDataset(), "Enrollment Ledger")
	require.NoError(t, err)
	require.True(t, len(content) > 4)
	assert.Equal(t, "%PDF", string(content[:4]))
}

func TestPDFRequiresHeaders(t *testing.T) {
	_, err := PDF(Dataset{}, "")
	assert.Error(t, err)
}
