package service

import (
	"github.com/clothely/clothely-backend/internal/app/model"
)

// ImageAdd is one URL to insert, with its assigned display order.
type ImageAdd struct {
	URL       string
	SortOrder int
}

// ReconcileImages computes the add/remove sets that turn the persisted
// image rows into the incoming URL list. Incoming nil means the field
// was omitted and the images stay untouched; an empty non-nil list
// deletes every existing image. Inserted URLs get order values
// continuing after the current maximum. Reordering surviving rows is
// not supported; only add and remove are computed.
func ReconcileImages(existing []model.ProductImage, incoming []string) (adds []ImageAdd, removeIDs []uint) {
	if incoming == nil {
		return nil, nil
	}

	existingURLs := make(map[string]struct{}, len(existing))
	maxOrder := -1
	for _, img := range existing {
		existingURLs[img.URL] = struct{}{}
		if img.SortOrder > maxOrder {
			maxOrder = img.SortOrder
		}
	}

	incomingURLs := make(map[string]struct{}, len(incoming))
	nextOrder := maxOrder + 1
	for _, url := range incoming {
		if url == "" {
			continue
		}
		if _, dup := incomingURLs[url]; dup {
			continue
		}
		incomingURLs[url] = struct{}{}
		if _, ok := existingURLs[url]; !ok {
			adds = append(adds, ImageAdd{URL: url, SortOrder: nextOrder})
			nextOrder++
		}
	}

	for _, img := range existing {
		if _, ok := incomingURLs[img.URL]; !ok {
			removeIDs = append(removeIDs, img.ID)
		}
	}
	return adds, removeIDs
}
