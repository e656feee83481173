package item

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lehackerdu95/collector-market/api/web"
	"github.com/lehackerdu95/collector-market/api/weberr"
	"github.com/lehackerdu95/collector-market/core/claims"
	"github.com/lehackerdu95/collector-market/core/collection"
	"github.com/lehackerdu95/collector-market/validate"
	"github.com/shopspring/decimal"
)

func parseValue(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("value is not a valid decimal number")
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("value must not be negative")
	}
	if d.Exponent() < -2 {
		return decimal.Zero, errors.New("value must have at most two decimal places")
	}
	return d, nil
}

func parseSalePrice(s *string) (decimal.NullDecimal, error) {
	if s == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := validate.CheckAmount(*s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("sale price: %w", err)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		collectionID := web.Param(r, "collection_id")
		if err := validate.CheckID(collectionID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		// Only the collection's owner may add items to it.
		if _, err := collection.Fetch(ctx, db, collectionID, clm.UserID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return err
		}

		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		value, err := parseValue(in.Value)
		if err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		salePrice, err := parseSalePrice(in.SalePrice)
		if err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		cond := Good
		if in.Condition != "" {
			cond = Condition(in.Condition)
			if !cond.Valid() {
				err := errors.New("condition must be one of excellent, good, fair, poor")
				return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
			}
		}

		now := time.Now().UTC()
		it := Item{
			ID:              validate.GenerateID(),
			CollectionID:    collectionID,
			Name:            in.Name,
			Description:     in.Description,
			Value:           value,
			AcquisitionDate: in.AcquisitionDate,
			Condition:       cond,
			ImageURL:        in.ImageURL,
			IsForSale:       in.IsForSale,
			SalePrice:       salePrice,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := Create(ctx, db, it); err != nil {
			return fmt.Errorf("creating item: %w", err)
		}

		return web.Respond(ctx, w, it, http.StatusCreated)
	}
}

func HandleListByCollection(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		collectionID := web.Param(r, "collection_id")
		if err := validate.CheckID(collectionID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		if _, err := collection.Fetch(ctx, db, collectionID, clm.UserID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return err
		}

		its, err := FetchByCollection(ctx, db, collectionID)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, its, http.StatusOK)
	}
}

func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		var up ItemUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(up); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		it, err := FetchOwned(ctx, db, id, clm.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return err
		}

		if up.Name != nil {
			it.Name = *up.Name
		}
		if up.Description != nil {
			it.Description = *up.Description
		}
		if up.Value != nil {
			value, err := parseValue(*up.Value)
			if err != nil {
				return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
			}
			it.Value = value
		}
		if up.AcquisitionDate != nil {
			it.AcquisitionDate = up.AcquisitionDate
		}
		if up.Condition != nil {
			cond := Condition(*up.Condition)
			if !cond.Valid() {
				err := errors.New("condition must be one of excellent, good, fair, poor")
				return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
			}
			it.Condition = cond
		}
		if up.ImageURL != nil {
			it.ImageURL = *up.ImageURL
		}
		if up.IsForSale != nil {
			it.IsForSale = *up.IsForSale
		}
		if up.SalePrice != nil {
			salePrice, err := parseSalePrice(up.SalePrice)
			if err != nil {
				return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
			}
			it.SalePrice = salePrice
		}

		if it.IsForSale && !it.SalePrice.Valid {
			err := errors.New("a listed item needs a sale price")
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		it.UpdatedAt = time.Now().UTC()

		if err := Update(ctx, db, it); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("updating item[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, it, http.StatusOK)
	}
}

// HandleUpdateImage replaces just the image reference of an owned item.
func HandleUpdateImage(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		var up ImageUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(up); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		it, err := FetchOwned(ctx, db, id, clm.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return err
		}

		it.ImageURL = up.ImageURL
		it.UpdatedAt = time.Now().UTC()

		if err := Update(ctx, db, it); err != nil {
			return fmt.Errorf("updating image of item[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, it, http.StatusOK)
	}
}

func HandleDelete(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		if err := Delete(ctx, db, id, clm.UserID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("deleting item[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

// HandleMarketList lists every item currently for sale, filtered and
// sorted from the query string.
func HandleMarketList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		f := Filter{
			Search:    web.QueryParam(r, "q"),
			Condition: Condition(web.QueryParam(r, "condition")),
			Sort:      web.QueryParam(r, "sort"),
		}

		if f.Condition != "" && !f.Condition.Valid() {
			err := errors.New("condition must be one of excellent, good, fair, poor")
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		its, err := FetchForSale(ctx, db, f)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, its, http.StatusOK)
	}
}

// HandleMarketShow shows a single listed item. Unlisted items are not
// part of the marketplace, so they read as absent.
func HandleMarketShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		it, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return err
		}

		if !it.IsForSale {
			return weberr.NotFound(fmt.Errorf("item[%s] is not listed", id))
		}

		return web.Respond(ctx, w, it, http.StatusOK)
	}
}
