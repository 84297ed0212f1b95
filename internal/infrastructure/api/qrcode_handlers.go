package api

import (
	"errors"
	"net/http"

	"github.com/skip2/go-qrcode"

	"qrcode-shopify-layer/internal/application"
	"qrcode-shopify-layer/internal/domain"
)

const qrImageSize = 512

func scanHandler(svc *application.QRCodeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		q, err := svc.Read(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if q == nil {
			writeError(w, r, domain.ErrNotFound)
			return
		}

		target, err := svc.HandleScan(r.Context(), q)
		if err != nil {
			writeError(w, r, err)
			return
		}
		http.Redirect(w, r, target, http.StatusFound)
	}
}

func imageHandler(svc *application.QRCodeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		q, err := svc.Read(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if q == nil {
			writeError(w, r, domain.ErrNotFound)
			return
		}

		png, err := qrcode.Encode(q.ScanURL, qrcode.Medium, qrImageSize)
		if err != nil {
			writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.WriteHeader(http.StatusOK)
		w.Write(png)
	}
}

func listQRCodesHandler(svc *application.QRCodeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		codes, err := svc.List(r.Context(), domain.GetShopDomainFromContext(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, codes)
	}
}

func createQRCodeHandler(svc *application.QRCodeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields domain.QRCodeFields
		if err := decodeJSON(w, r, &fields); err != nil {
			writeError(w, r, err)
			return
		}

		ctx := r.Context()
		id, err := svc.Create(ctx, domain.GetShopDomainFromContext(ctx), fields)
		if err != nil {
			writeError(w, r, err)
			return
		}

		q, err := svc.Read(ctx, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

// loadOwned reads the QR code named by the route for the shop of the request
func loadOwned(svc *application.QRCodeService, r *http.Request) (*domain.QRCode, error) {
	id, err := idParam(r)
	if err != nil {
		return nil, err
	}
	ctx := r.Context()
	q, err := svc.ReadForShop(ctx, domain.GetShopDomainFromContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	return q, nil
}

func readQRCodeHandler(svc *application.QRCodeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := loadOwned(svc, r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func updateQRCodeHandler(svc *application.QRCodeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := loadOwned(svc, r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		fields := q.Fields()
		if err := decodeJSON(w, r, &fields); err != nil {
			writeError(w, r, err)
			return
		}
		if err := svc.Update(r.Context(), q.ID, fields); err != nil {
			writeError(w, r, err)
			return
		}

		updated, err := svc.Read(r.Context(), q.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if updated == nil {
			writeError(w, r, domain.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteQRCodeHandler(svc *application.QRCodeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := loadOwned(svc, r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := svc.Delete(r.Context(), q.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
