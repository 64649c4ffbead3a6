/*
Package tri draws a single fixed triangle into a gl.Context from
golang.org/x/mobile/gl.  The vertex and index data are uploaded into GPU
buffers once, a pass-through vertex shader and a constant color fragment
shader are linked into a program, and one indexed draw call renders the
frame.

Typically an application will just make use of the one-shot function Draw.

	err := tri.Draw(glctx, sz.WidthPx, sz.HeightPx)
	if err != nil {
		log.Printf("unable to draw triangle: %v", err)
	}

Applications that paint more than once hold on to a Scene instead and call
Release when the context goes away.
*/
package tri
