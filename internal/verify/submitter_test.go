package verify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/certverify-labs/certverify/internal/backend"
	"github.com/certverify-labs/certverify/internal/domain"
)

type MockBackend struct {
	mock.Mock

	verifyOrder []string
}

func (m *MockBackend) Health(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockBackend) SystemHealth(ctx context.Context) (*domain.SystemHealth, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SystemHealth), args.Error(1)
}

func (m *MockBackend) Statistics(ctx context.Context) (*domain.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

func (m *MockBackend) LedgerStatistics(ctx context.Context) (*domain.LedgerStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerStatistics), args.Error(1)
}

func (m *MockBackend) LedgerIntegrity(ctx context.Context) (*domain.LedgerIntegrity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerIntegrity), args.Error(1)
}

func (m *MockBackend) ValidateLedger(ctx context.Context) (*domain.LedgerIntegrity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerIntegrity), args.Error(1)
}

func (m *MockBackend) LedgerEntries(ctx context.Context, limit, offset int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockBackend) Upload(ctx context.Context, file backend.File, opts backend.UploadOptions) (*backend.UploadResult, error) {
	m.verifyOrder = append(m.verifyOrder, file.Name)
	args := m.Called(ctx, file, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.UploadResult), args.Error(1)
}

func (m *MockBackend) Verify(ctx context.Context, file backend.File, opts backend.VerifyOptions) (*domain.VerificationResult, error) {
	m.verifyOrder = append(m.verifyOrder, file.Name)
	args := m.Called(ctx, file, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationResult), args.Error(1)
}

func (m *MockBackend) VerifyByHash(ctx context.Context, certificateNumber, hash string) (*domain.VerificationResult, error) {
	args := m.Called(ctx, certificateNumber, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationResult), args.Error(1)
}

func (m *MockBackend) ListCertificates(ctx context.Context) ([]domain.Certificate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Certificate), args.Error(1)
}

func (m *MockBackend) DeleteCertificate(ctx context.Context, certificateNumber string) error {
	return m.Called(ctx, certificateNumber).Error(0)
}

func (m *MockBackend) CertificateHistory(ctx context.Context, certificateNumber string) ([]domain.CertificateEvent, error) {
	args := m.Called(ctx, certificateNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CertificateEvent), args.Error(1)
}

func (m *MockBackend) DownloadCertificate(ctx context.Context, id string) (*backend.Download, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.Download), args.Error(1)
}

func (m *MockBackend) DownloadBulk(ctx context.Context, ids []string) (*backend.Download, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.Download), args.Error(1)
}

type capturingNotifier struct {
	successes []string
	errors    []string
}

func (n *capturingNotifier) Success(message string) { n.successes = append(n.successes, message) }
func (n *capturingNotifier) Error(message string)   { n.errors = append(n.errors, message) }

func namedFile(name string) backend.File {
	return backend.File{Name: name, ContentType: "image/png", Data: []byte(name)}
}

func fileMatcher(name string) interface{} {
	return mock.MatchedBy(func(f backend.File) bool { return f.Name == name })
}

func TestSubmitter_VerifyBatch_FailureIsolation(t *testing.T) {
	mockBackend := &MockBackend{}
	notifier := &capturingNotifier{}

	ok := &domain.VerificationResult{Status: domain.StatusVerified, Confidence: 0.95}
	mockBackend.On("Verify", mock.Anything, fileMatcher("a.png"), mock.Anything).Return(ok, nil)
	mockBackend.On("Verify", mock.Anything, fileMatcher("b.png"), mock.Anything).
		Return(nil, domain.ErrBackendUnavailable.WithError(errors.New("boom")))
	mockBackend.On("Verify", mock.Anything, fileMatcher("c.png"), mock.Anything).Return(ok, nil)

	submitter := NewSubmitter(mockBackend, notifier)
	summary := submitter.VerifyBatch(context.Background(),
		[]backend.File{namedFile("a.png"), namedFile("b.png"), namedFile("c.png")},
		backend.VerifyOptions{})

	// One result per input, in input order.
	require.Len(t, summary.Results, 3)
	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, mockBackend.verifyOrder)

	assert.Equal(t, ResultSuccess, summary.Results[0].Status)
	assert.Equal(t, ResultError, summary.Results[1].Status)
	assert.Contains(t, summary.Results[1].Error, "boom")
	assert.Equal(t, ResultSuccess, summary.Results[2].Status)

	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.False(t, summary.Unauthorized)

	require.Len(t, notifier.errors, 1)
	assert.Contains(t, notifier.errors[0], "2 succeeded, 1 failed")
}

func TestSubmitter_VerifyBatch_FlagsUnauthorized(t *testing.T) {
	mockBackend := &MockBackend{}

	ok := &domain.VerificationResult{Status: domain.StatusVerified}
	mockBackend.On("Verify", mock.Anything, fileMatcher("a.png"), mock.Anything).Return(ok, nil)
	mockBackend.On("Verify", mock.Anything, fileMatcher("b.png"), mock.Anything).
		Return(nil, domain.ErrUnauthorized.WithError(errors.New("token expired")))
	mockBackend.On("Verify", mock.Anything, fileMatcher("c.png"), mock.Anything).Return(ok, nil)

	submitter := NewSubmitter(mockBackend, nil)
	summary := submitter.VerifyBatch(context.Background(),
		[]backend.File{namedFile("a.png"), namedFile("b.png"), namedFile("c.png")},
		backend.VerifyOptions{})

	// The rejection surfaces on the summary without aborting the batch.
	assert.True(t, summary.Unauthorized)
	require.Len(t, summary.Results, 3)
	assert.Equal(t, ResultError, summary.Results[1].Status)
	assert.Equal(t, 2, summary.Succeeded)
	mockBackend.AssertNumberOfCalls(t, "Verify", 3)
}

func TestSubmitter_UploadBatch_FlagsUnauthorized(t *testing.T) {
	mockBackend := &MockBackend{}
	mockBackend.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrUnauthorized)

	submitter := NewSubmitter(mockBackend, nil)
	summary := submitter.UploadBatch(context.Background(),
		[]backend.File{namedFile("cert_001.png")},
		backend.UploadOptions{})

	assert.True(t, summary.Unauthorized)
	assert.Equal(t, 1, summary.Failed)
}

func TestSubmitter_VerifyBatch_AllSucceedNotifiesSuccess(t *testing.T) {
	mockBackend := &MockBackend{}
	notifier := &capturingNotifier{}

	ok := &domain.VerificationResult{Status: domain.StatusVerified}
	mockBackend.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(ok, nil)

	submitter := NewSubmitter(mockBackend, notifier)
	summary := submitter.VerifyBatch(context.Background(),
		[]backend.File{namedFile("a.png"), namedFile("b.png")},
		backend.VerifyOptions{})

	assert.Equal(t, 2, summary.Succeeded)
	assert.Zero(t, summary.Failed)
	require.Len(t, notifier.successes, 1)
	assert.Empty(t, notifier.errors)
}

func TestSubmitter_VerifyBatch_CancelledContextFillsRemaining(t *testing.T) {
	mockBackend := &MockBackend{}
	ctx, cancel := context.WithCancel(context.Background())

	ok := &domain.VerificationResult{Status: domain.StatusVerified}
	mockBackend.On("Verify", mock.Anything, fileMatcher("a.png"), mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(ok, nil)

	submitter := NewSubmitter(mockBackend, nil)
	summary := submitter.VerifyBatch(ctx,
		[]backend.File{namedFile("a.png"), namedFile("b.png"), namedFile("c.png")},
		backend.VerifyOptions{})

	require.Len(t, summary.Results, 3)
	assert.Equal(t, ResultSuccess, summary.Results[0].Status)
	assert.Equal(t, ResultError, summary.Results[1].Status)
	assert.Equal(t, ResultError, summary.Results[2].Status)

	// The backend was only reached once; cancelled entries never hit it.
	mockBackend.AssertNumberOfCalls(t, "Verify", 1)
}

func TestSubmitter_UploadBatch(t *testing.T) {
	mockBackend := &MockBackend{}
	notifier := &capturingNotifier{}

	mockBackend.On("Upload", mock.Anything, fileMatcher("cert_001.png"), mock.Anything).
		Return(&backend.UploadResult{CertificateNumber: "BSc-12700", Hash: "b7f0aa11"}, nil)

	submitter := NewSubmitter(mockBackend, notifier)
	summary := submitter.UploadBatch(context.Background(),
		[]backend.File{namedFile("cert_001.png")},
		backend.UploadOptions{EmbedHash: true, UseChecksum: true})

	require.Len(t, summary.Results, 1)
	entry := summary.Results[0]
	assert.Equal(t, "cert_001.png", entry.Filename)
	assert.Equal(t, ResultSuccess, entry.Status)
	require.NotNil(t, entry.Upload)
	assert.Equal(t, "BSc-12700", entry.Upload.CertificateNumber)
	require.Len(t, notifier.successes, 1)
}

func TestSubmitter_VerifyByHash_Validation(t *testing.T) {
	submitter := NewSubmitter(&MockBackend{}, nil)

	_, err := submitter.VerifyByHash(context.Background(), "", "b7f0")
	assert.ErrorIs(t, err, domain.ErrValidationFailed)

	_, err = submitter.VerifyByHash(context.Background(), "BSc-12700", "")
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestSubmitter_VerifyByHash_Delegates(t *testing.T) {
	mockBackend := &MockBackend{}
	want := &domain.VerificationResult{Status: domain.StatusVerified, CertificateNumber: "BSc-12700"}
	mockBackend.On("VerifyByHash", mock.Anything, "BSc-12700", "b7f0").Return(want, nil)

	submitter := NewSubmitter(mockBackend, nil)
	got, err := submitter.VerifyByHash(context.Background(), "BSc-12700", "b7f0")

	require.NoError(t, err)
	assert.Equal(t, want, got)
	mockBackend.AssertExpectations(t)
}
