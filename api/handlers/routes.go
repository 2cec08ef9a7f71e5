package handlers

import "github.com/go-chi/chi/v5"

// Mount registers the API endpoints on r.
func Mount(r chi.Router) {
	r.Route("/sequence", func(r chi.Router) {
		r.Post("/reverse-complement", ReverseComplementHandler)
		r.Post("/validate", ValidateHandler)
	})

	r.Route("/alignment", func(r chi.Router) {
		r.Post("/local", LocalAlignHandler)
		r.Post("/global", GlobalAlignHandler)
		r.Post("/semi-global", SemiGlobalAlignHandler)
		r.Post("/score", AlignmentScoreHandler)
		r.Post("/stats", StatisticsHandler)
		r.Post("/format", FormatHandler)
		r.Post("/multiple", MultipleAlignHandler)
	})
}
