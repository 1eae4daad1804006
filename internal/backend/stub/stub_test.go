package stub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certverify-labs/certverify/internal/backend"
	"github.com/certverify-labs/certverify/internal/domain"
)

func pngFile(name string, content string) backend.File {
	return backend.File{Name: name, ContentType: "image/png", Data: []byte(content)}
}

func TestBackend_VerifyDeterministic(t *testing.T) {
	b := New()
	ctx := context.Background()

	first, err := b.Verify(ctx, pngFile("cert_001.png", "same bytes"), backend.VerifyOptions{})
	require.NoError(t, err)
	second, err := b.Verify(ctx, pngFile("cert_001.png", "same bytes"), backend.VerifyOptions{})
	require.NoError(t, err)

	assert.Equal(t, first.Hash, second.Hash)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.CertificateNumber, second.CertificateNumber)
	assert.Equal(t, domain.StatusVerified, first.Status)
}

func TestBackend_FilenameMarkers(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"diploma.png", domain.StatusVerified},
		{"scan_of_diploma.png", domain.StatusVerifiedByData},
		{"failing_cert.png", domain.StatusFailed},
		{"corrupted.png", domain.StatusCorruptedHash},
		{"nohash_doc.png", domain.StatusNoHash},
	}

	b := New()
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			result, err := b.Verify(context.Background(), pngFile(tt.filename, "payload"), backend.VerifyOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Status)
		})
	}
}

func TestBackend_UploadThenVerifyByHash(t *testing.T) {
	b := New()
	ctx := context.Background()

	uploaded, err := b.Upload(ctx, pngFile("cert_001.png", "document"), backend.UploadOptions{
		EmbedHash:   true,
		UseChecksum: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, uploaded.Hash)
	require.NotEmpty(t, uploaded.CertificateNumber)

	matched, err := b.VerifyByHash(ctx, uploaded.CertificateNumber, uploaded.Hash)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVerified, matched.Status)
	assert.Equal(t, 1.0, matched.Confidence)

	mismatched, err := b.VerifyByHash(ctx, uploaded.CertificateNumber, "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, mismatched.Status)
}

func TestBackend_VerifyByHashValidation(t *testing.T) {
	b := New()

	_, err := b.VerifyByHash(context.Background(), "", "abc")
	assert.ErrorIs(t, err, domain.ErrValidationFailed)

	_, err = b.VerifyByHash(context.Background(), "CERT-1", "")
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestBackend_LedgerGrowsAndPaginates(t *testing.T) {
	b := New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := b.Verify(ctx, pngFile("cert.png", string(rune('a'+i))), backend.VerifyOptions{})
		require.NoError(t, err)
	}

	all, err := b.LedgerEntries(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)

	// Chain links back to the previous entry.
	for i := 1; i < len(all); i++ {
		assert.Equal(t, all[i-1].Hash, all[i].PreviousHash)
	}

	page, err := b.LedgerEntries(ctx, 2, 3)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(3), page[0].Index)

	empty, err := b.LedgerEntries(ctx, 10, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBackend_StatisticsTrackOutcomes(t *testing.T) {
	b := New()
	ctx := context.Background()

	_, err := b.Verify(ctx, pngFile("good.png", "x"), backend.VerifyOptions{})
	require.NoError(t, err)
	_, err = b.Verify(ctx, pngFile("failing.png", "y"), backend.VerifyOptions{})
	require.NoError(t, err)

	stats, err := b.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalVerified)
	assert.Equal(t, int64(1), stats.TotalFailed)
}

func TestBackend_DeleteCertificate(t *testing.T) {
	b := New()
	ctx := context.Background()

	uploaded, err := b.Upload(ctx, pngFile("cert.png", "doc"), backend.UploadOptions{})
	require.NoError(t, err)

	require.NoError(t, b.DeleteCertificate(ctx, uploaded.CertificateNumber))

	err = b.DeleteCertificate(ctx, uploaded.CertificateNumber)
	assert.ErrorIs(t, err, domain.ErrCertificateNotFound)
}

func TestBackend_EmptyFileRejected(t *testing.T) {
	b := New()

	_, err := b.Verify(context.Background(), backend.File{Name: "empty.png"}, backend.VerifyOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidFile)

	_, err = b.Upload(context.Background(), backend.File{Name: "empty.png"}, backend.UploadOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidFile)
}
