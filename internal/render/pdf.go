package render

import (
	"context"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// PDFEngine rasterizes an HTML document to PDF bytes.
type PDFEngine interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// ChromePDF prints through an isolated headless Chromium process, launched
// per call and closed on every exit path.
type ChromePDF struct {
	// Bin optionally pins the browser binary; empty lets the launcher
	// resolve one.
	Bin string
}

func (c *ChromePDF) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	l := launcher.New().Headless(true)
	if c.Bin != "" {
		l = l.Bin(c.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, err
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, err
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.SetDocumentContent(html); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	r, err := page.PDF(&proto.PagePrintToPDF{PrintBackground: true, PreferCSSPageSize: true})
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
