package websli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

func TestGetDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/docs/housebill=111/doctype=HOUSEBILL":
			_, _ = io.WriteString(w, `{"wtDocs":{"wtDoc":[{"filename":"111.pdf","b64str":"JVBER"}]}}`)
		case "/docs/housebill=222/doctype=LABEL":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, "not found")
		default:
			http.Error(w, "internal", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()
	c := New(srv.URL+"/docs/", time.Second)
	ctx := context.Background()

	docs, err := c.GetDocuments(ctx, "111", "HOUSEBILL")
	require.NoError(t, err)
	assert.Equal(t, []domain.Document{{Filename: "111.pdf", Base64Content: "JVBER"}}, docs)

	docs, err = c.GetDocuments(ctx, "222", "LABEL")
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.NotNil(t, docs)

	_, err = c.GetDocuments(ctx, "333", "BI")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
