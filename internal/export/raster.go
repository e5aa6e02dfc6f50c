package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"math"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/go-pdf/fpdf"
)

// Raster settings for CV exports.
const (
	RasterScale   = 2
	RasterQuality = 98
	// A4 width at 96 dpi.
	ViewportWidth  = 794
	ViewportHeight = 1123
	ImageMargin    = 10.0
)

// Rasterizer renders an HTML page to a JPEG image.
type Rasterizer interface {
	Rasterize(ctx context.Context, page string) ([]byte, error)
}

// ChromeRasterizer drives a headless Chrome through chromedp.
type ChromeRasterizer struct {
	ExecPath string
	Timeout  time.Duration
}

func NewChromeRasterizer(execPath string) *ChromeRasterizer {
	return &ChromeRasterizer{ExecPath: execPath, Timeout: 60 * time.Second}
}

func (r *ChromeRasterizer) Rasterize(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	runCtx, cancelRun := context.WithTimeout(cctx, timeout)
	defer cancelRun()

	var shot []byte
	err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(ViewportWidth, ViewportHeight, chromedp.EmulateScale(RasterScale)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.FullScreenshot(&shot, RasterQuality),
	)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	return shot, nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// PaginateImage slices a JPEG raster into A4 portrait pages with fixed
// margins, scaling the image to the printable width.
func PaginateImage(raster []byte, opts PDFOptions) ([]byte, error) {
	img, err := jpeg.Decode(bytes.NewReader(raster))
	if err != nil {
		return nil, fmt.Errorf("decode raster: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("decode raster: empty image")
	}

	const pageW, pageH = 210.0, 297.0
	printW := pageW - 2*ImageMargin
	printH := pageH - 2*ImageMargin
	mmPerPx := printW / float64(bounds.Dx())
	slice := int(math.Floor(printH / mmPerPx))
	if slice < 1 {
		slice = 1
	}

	doc := newDocument(opts)
	imgOpts := fpdf.ImageOptions{ImageType: "JPG"}
	for i, top := 0, bounds.Min.Y; top < bounds.Max.Y; i, top = i+1, top+slice {
		bottom := min(top+slice, bounds.Max.Y)
		part := crop(img, image.Rect(bounds.Min.X, top, bounds.Max.X, bottom))

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, part, &jpeg.Options{Quality: RasterQuality}); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", i+1, err)
		}
		name := fmt.Sprintf("page-%d", i+1)
		doc.RegisterImageOptionsReader(name, imgOpts, &buf)
		doc.AddPage()
		doc.ImageOptions(name, ImageMargin, ImageMargin, printW, float64(bottom-top)*mmPerPx, false, imgOpts, 0, "")
	}
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("layout pdf: %w", err)
	}
	return output(doc)
}

func crop(img image.Image, r image.Rectangle) image.Image {
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}
