package http

import "net/http"

func (a *API) handleListCategories(w http.ResponseWriter, r *http.Request) {
	tree, err := a.categorySvc.Tree(r.Context())
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"categories": mapCategoryTree(tree)})
}
