package usecases

import (
	"context"
	"log"

	"github.com/0xcro3dile/ragctl/internal/domain/ports"
)

// ClearCachePrompt is the confirmation question shown before clearing.
const ClearCachePrompt = "Are you sure you want to clear the cache?"

// CacheControl clears the service's answer cache after explicit confirmation.
type CacheControl struct {
	svc    ports.RAGService
	dialog ports.Dialog
}

// NewCacheControl creates a CacheControl.
func NewCacheControl(svc ports.RAGService, dialog ports.Dialog) *CacheControl {
	return &CacheControl{svc: svc, dialog: dialog}
}

// Clear confirms, clears, and acknowledges the result through the dialog.
// A declined confirmation makes no call and reports cleared=false with no error.
func (c *CacheControl) Clear(ctx context.Context) (cleared bool, err error) {
	ok, err := c.dialog.Confirm(ctx, ClearCachePrompt)
	if err != nil || !ok {
		return false, err
	}

	if err := c.svc.ClearCache(ctx); err != nil {
		log.Printf("[ERROR] Clearing cache: %v", err)
		if alertErr := c.dialog.Alert(ctx, "✗ Error clearing cache: "+err.Error()); alertErr != nil {
			log.Printf("[WARN] Acknowledging error: %v", alertErr)
		}
		return false, err
	}

	log.Printf("[INFO] Cache cleared")
	return true, c.dialog.Alert(ctx, "✓ Cache cleared successfully!")
}
