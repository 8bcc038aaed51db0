/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package rest

import (
	"io/ioutil"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/jhblack-olya/pie-engine/catalog"
	"github.com/jhblack-olya/pie-engine/models"
	"github.com/jhblack-olya/pie-engine/service"
)

type HttpServer struct {
	addr            string
	store           models.Store
	catalog         *catalog.Catalog
	purchaseService *service.PurchaseService
}

func NewHttpServer(addr string, store models.Store, cat *catalog.Catalog, purchaseService *service.PurchaseService) *HttpServer {
	return &HttpServer{
		addr:            addr,
		store:           store,
		catalog:         cat,
		purchaseService: purchaseService,
	}
}

func (server *HttpServer) Start() {
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = ioutil.Discard

	log.Info("rest server starting", zap.String("addr", server.addr))
	err := server.router().Run(server.addr)
	if err != nil {
		panic(err)
	}
}

func (server *HttpServer) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(setCROSOptions)

	r.GET("/health", healthCheck())
	r.GET("/pies", server.GetPies)
	r.GET("/pies/:id", server.GetPie)
	r.POST("/pies/:id/purchases", server.PurchasePie)
	r.GET("/recommend", server.Recommend)
	return r
}

func healthCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, "Ok")
	}
}

func setCROSOptions(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
	c.Header("Access-Control-Allow-Headers", "*")
	c.Header("Allow", "HEAD,GET,POST,OPTIONS")
	c.Header("Content-Type", "application/json")

	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(200)
		return
	}
}
