// Package lightbox rewrites rendered HTML so images open in a lightbox.
//
// Every <img> with a non-empty src is annotated and moved into a wrapper:
//
//	<img src="a.png" alt="A" class="wide">
//
// becomes
//
//	<div class="lightbox-wrapper" data-lightbox="true">
//	  <img src="a.png" alt="A" class="wide lightbox-image"
//	       data-src="a.png" data-alt="A" loading="lazy">
//	</div>
//
// The wrapper markup is the only contract with the client script in
// internal/assets, which binds click handlers to .lightbox-wrapper elements.
package lightbox
