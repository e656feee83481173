package auction

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
	"github.com/lehackerdu95/collector-market/core/item"
	"github.com/lehackerdu95/collector-market/core/trade/tradeerr"
	"github.com/lehackerdu95/collector-market/validate"
)

const defaultDurationDays = 7

// HandleCreate starts an auction on an item the actor owns. The item
// must be listed for sale and free of other active auctions.
func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		itemID := web.Param(r, "id")
		if err := validate.CheckID(itemID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		var an AuctionNew
		if err := web.Decode(w, r, &an); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(an); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		starting, err := validate.CheckAmount(an.StartingPrice)
		if err != nil {
			return weberr.Unprocessable(tradeerr.ErrInvalidAmount)
		}

		it, err := item.FetchOwned(ctx, db, itemID, clm.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return err
		}

		if !it.IsForSale {
			return weberr.Unprocessable(tradeerr.ErrNotForSale)
		}

		if _, err := FetchActiveByItem(ctx, db, itemID); err == nil {
			return weberr.Conflict(errors.New("this item is already being auctioned"))
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		days := an.DurationDays
		if days == 0 {
			days = defaultDurationDays
		}

		now := time.Now().UTC()
		a := Auction{
			ID:            validate.GenerateID(),
			ItemID:        itemID,
			SellerID:      clm.UserID,
			StartingPrice: starting,
			CurrentPrice:  starting,
			StartDate:     now,
			EndDate:       now.AddDate(0, 0, days),
			Status:        Active,
		}

		if err := Create(ctx, db, a); err != nil {
			return fmt.Errorf("creating auction: %w", err)
		}

		return web.Respond(ctx, w, a, http.StatusCreated)
	}
}

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		as, err := FetchActive(ctx, db)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, as, http.StatusOK)
	}
}

func HandleMine(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		as, err := FetchBySeller(ctx, db, clm.UserID)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, as, http.StatusOK)
	}
}

type detail struct {
	Auction
	Bids   []Bid `json:"bids"`
	Active bool  `json:"active"`
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		a, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return err
		}

		bs, err := FetchBids(ctx, db, id)
		if err != nil {
			return err
		}

		d := detail{
			Auction: a,
			Bids:    bs,
			Active:  a.IsActive(time.Now().UTC()),
		}
		return web.Respond(ctx, w, d, http.StatusOK)
	}
}

// HandlePlaceBid records a bid. The auction row is locked while the
// rules run so two concurrent bids can never both read a stale price.
func HandlePlaceBid(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		var bn BidNew
		if err := web.Decode(w, r, &bn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(bn); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		amount, err := validate.CheckAmount(bn.Amount)
		if err != nil {
			return weberr.Unprocessable(tradeerr.ErrInvalidAmount)
		}

		b, err := PlaceBid(ctx, db, id, clm.UserID, amount)
		switch {
		case err == nil:
			return web.Respond(ctx, w, b, http.StatusCreated)
		case errors.Is(err, sql.ErrNoRows):
			return weberr.NotFound(err)
		case errors.Is(err, tradeerr.ErrAlreadyTerminal),
			errors.Is(err, tradeerr.ErrSelfDealing),
			errors.Is(err, tradeerr.ErrAlreadyWinning),
			errors.Is(err, tradeerr.ErrBidTooLow):
			return weberr.Unprocessable(err)
		default:
			return fmt.Errorf("placing bid on auction[%s]: %w", id, err)
		}
	}
}
