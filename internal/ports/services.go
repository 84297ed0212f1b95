package ports

import "qrcode-shopify-layer/internal/domain"

// URLResolver computes the derived and destination URLs of a QR code
type URLResolver interface {
	// Attach sets the image and scan URLs of q
	Attach(q *domain.QRCode)

	// DestinationURL resolves where a scan of q redirects
	DestinationURL(q *domain.QRCode) (string, error)
}

// Validator checks a struct against its validate tags
type Validator interface {
	Struct(s interface{}) error
}

// ScanPublisher receives scan events after the counter has been incremented
type ScanPublisher interface {
	Publish(event *domain.ScanEvent)
}

// ScanRecorder counts scans by destination and outcome
type ScanRecorder interface {
	ObserveScan(destination, outcome string)
}
