/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pingcap/log"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jhblack-olya/pie-engine/catalog"
	"github.com/jhblack-olya/pie-engine/models"
	"github.com/jhblack-olya/pie-engine/service"
)

var errPriceMismatch = errors.New("amount does not match the price of the slices")

// GET /pies
func (server *HttpServer) GetPies(ctx *gin.Context) {
	pies, err := service.GetPies(server.store, server.catalog)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, pies)
}

// GET /pies/:id
func (server *HttpServer) GetPie(ctx *gin.Context) {
	pieId, err := parsePieId(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, newMessageVo(err))
		return
	}

	pie, err := service.GetPie(server.store, server.catalog, pieId)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, pie)
}

// POST /pies/:id/purchases?username=&amount=&slices=
func (server *HttpServer) PurchasePie(ctx *gin.Context) {
	pieId, err := parsePieId(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, newMessageVo(err))
		return
	}

	username := ctx.Query("username")
	if len(username) == 0 {
		ctx.JSON(http.StatusBadRequest, newMessageVo(errors.New("username is required")))
		return
	}

	slices, err := strconv.ParseInt(ctx.DefaultQuery("slices", "1"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, newMessageVo(fmt.Errorf("invalid slices: %v", err)))
		return
	}
	if slices < 1 {
		ctx.JSON(http.StatusBadRequest, newMessageVo(service.ErrInvalidSlices))
		return
	}

	amount, err := decimal.NewFromString(ctx.Query("amount"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, newMessageVo(fmt.Errorf("invalid amount: %v", err)))
		return
	}

	pie, _, err := server.catalog.Lookup(pieId)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if !service.ValidateAmount(pie, slices, amount) {
		ctx.JSON(http.StatusPaymentRequired, newMessageVo(errPriceMismatch))
		return
	}

	outcome, event, err := server.purchaseService.Purchase(pieId, username, slices)
	if err != nil {
		writeError(ctx, err)
		return
	}

	switch outcome.Status {
	case models.PurchaseStatusSuccess:
		ctx.JSON(http.StatusCreated, newPurchaseVo(event, amount))
	case models.PurchaseStatusOverLimit:
		ctx.JSON(http.StatusTooManyRequests, newMessageVo(fmt.Errorf("%v: %v", outcome.Status, outcome.Reason)))
	default:
		ctx.JSON(http.StatusGone, newMessageVo(fmt.Errorf("%v: %v", outcome.Status, outcome.Reason)))
	}
}

// GET /recommend?username=&budget=&labels=a,b
func (server *HttpServer) Recommend(ctx *gin.Context) {
	username := ctx.Query("username")
	budget := ctx.Query("budget")
	labels := splitLabels(ctx.Query("labels"))
	if len(username) == 0 || len(budget) == 0 || len(labels) == 0 {
		ctx.JSON(http.StatusBadRequest, newMessageVo(errors.New("username, budget and labels are required")))
		return
	}

	pie, err := service.Recommend(server.store, server.catalog, labels, models.Budget(budget), username)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if pie == nil {
		ctx.JSON(http.StatusNotFound, newMessageVo(errors.New("no pie matches")))
		return
	}
	ctx.JSON(http.StatusOK, pie)
}

func parsePieId(ctx *gin.Context) (int64, error) {
	id := strings.TrimSuffix(ctx.Param("id"), ".json")
	pieId, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pie id: %v", id)
	}
	return pieId, nil
}

func splitLabels(s string) []string {
	var labels []string
	for _, label := range strings.Split(s, ",") {
		label = strings.TrimSpace(label)
		if len(label) > 0 {
			labels = append(labels, label)
		}
	}
	return labels
}

func writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrUnknownPie):
		ctx.JSON(http.StatusNotFound, newMessageVo(err))
	case errors.Is(err, service.ErrInvalidSlices):
		ctx.JSON(http.StatusBadRequest, newMessageVo(err))
	case errors.Is(err, models.ErrStoreUnavailable):
		log.Error("store unavailable", zap.String("path", ctx.Request.URL.Path), zap.Error(err))
		ctx.JSON(http.StatusServiceUnavailable, newMessageVo(err))
	default:
		log.Error("request failed", zap.String("path", ctx.Request.URL.Path), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, newMessageVo(err))
	}
}
