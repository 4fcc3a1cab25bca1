// Package lightbox makes images in static-site pages open in an enlarged
// modal preview.
//
// # Quick Start
//
// Create a converter and convert Markdown into a complete page:
//
//	conv, err := lightbox.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, lightbox.Input{
//	    Markdown: "# Trip\n\n![Lake](lake.jpg)",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("trip.html", result.HTML, 0644)
//
// Pages produced by another generator go through Transform instead:
//
//	result, err := conv.Transform(ctx, string(existingHTML))
//
// # What Changes
//
// Every <img> with a non-empty src is wrapped in
// <div class="lightbox-wrapper" data-lightbox="true"> and gains the class
// lightbox-image, data-src, data-alt and loading="lazy". A stylesheet is
// injected before </head> and the client script before </body>. The script
// builds one modal overlay, rebuilds it on every "nav" event, and sizes the
// preview from the image's on-page and natural size (see SizingPolicy).
//
// Transform is idempotent: running it on its own output changes nothing.
// Hosts that manage their own assets can call RewriteTree on a parsed tree
// and emit Converter.Resources themselves.
//
// # Configuration
//
//	conv, err := lightbox.NewConverter(
//	    lightbox.WithLightbox(true),
//	    lightbox.WithSizingPolicy(policy),
//	    lightbox.WithStyle("./site.css"),
//	    lightbox.WithAssetPath("/path/to/custom/assets"),
//	)
//
// With WithLightbox(false) both the rewrite and the injected resources are
// skipped.
//
// # Verification
//
// Verifier loads a page in headless Chrome (go-rod) and checks that the
// modal opens, closes and survives re-initialization. Use VerifierPool to
// check many pages in parallel. Chromium is downloaded on first run unless
// ROD_BROWSER_BIN points to an installed browser.
package lightbox
