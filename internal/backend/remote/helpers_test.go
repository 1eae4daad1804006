package remote

import "github.com/certverify-labs/certverify/internal/backend"

func backendFile(name string) backend.File {
	return backend.File{
		Name:        name,
		ContentType: "image/png",
		Data:        []byte("fake png bytes"),
	}
}

func verifyOpts() backend.VerifyOptions {
	return backend.VerifyOptions{
		UseEnhancedExtraction: true,
		CheckDatabase:         true,
	}
}

func backendUploadOpts() backend.UploadOptions {
	return backend.UploadOptions{
		EmbedHash:   true,
		UseChecksum: true,
	}
}
