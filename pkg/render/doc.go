// Package render produces server-rendered anchor pages.
//
// SSR runs an application factory once in SSR mode on a Memory backend with
// hydration keys, so every element carries the data-hk attribute the client
// claims it by. The keyed signals of the run are captured as a hydration
// payload:
//
//	renderer := render.NewRenderer(render.RendererConfig{LivePath: "/live"})
//	res, err := renderer.SSR(app.Factory())
//	if err != nil {
//	    return err
//	}
//	err = renderer.RenderPage(w, render.PageData{
//	    Title:   "Todos",
//	    Body:    res.Container,
//	    Payload: res.Payload,
//	})
//
// The resulting document holds the container, the payload script and, when
// configured, a meta tag announcing the live endpoint. FindContainer and
// hydrate.Extract recover both from parsed markup on the client side.
package render
