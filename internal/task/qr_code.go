package task

import (
	"context"
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/phrazzld/shortlink-api/internal/domain"
)

// DefaultQRCodeSize is the edge length in pixels of generated QR images.
const DefaultQRCodeSize = 256

// QRCodeResult is the payload of a completed qr_code job.
type QRCodeResult struct {
	QRCode string `json:"qr_code"`
	Format string `json:"format"`
}

// QRCodeProcessor renders the original URL as a PNG QR code.
type QRCodeProcessor struct {
	Size     int
	Recovery qrcode.RecoveryLevel
}

// NewQRCodeProcessor creates a processor with the default size and medium
// error correction.
func NewQRCodeProcessor() *QRCodeProcessor {
	return &QRCodeProcessor{Size: DefaultQRCodeSize, Recovery: qrcode.Medium}
}

// Process implements Processor
func (p *QRCodeProcessor) Process(ctx context.Context, item domain.JobItem) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(item.URL, p.Recovery, p.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}

	return QRCodeResult{
		QRCode: base64.StdEncoding.EncodeToString(png),
		Format: "png",
	}, nil
}
