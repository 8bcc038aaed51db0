/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package main

import (
	"net/http"
	_ "net/http/pprof"

	"github.com/prometheus/common/log"

	"github.com/jhblack-olya/pie-engine/catalog"
	"github.com/jhblack-olya/pie-engine/conf"
	"github.com/jhblack-olya/pie-engine/models"
	"github.com/jhblack-olya/pie-engine/models/memory"
	"github.com/jhblack-olya/pie-engine/models/mysql"
	"github.com/jhblack-olya/pie-engine/models/redis"
	"github.com/jhblack-olya/pie-engine/pushing"
	"github.com/jhblack-olya/pie-engine/rest"
	"github.com/jhblack-olya/pie-engine/service"
	"github.com/jhblack-olya/pie-engine/worker"
)

func main() {
	pieConfig := conf.GetConfig()
	go func() {
		log.Info(http.ListenAndServe("localhost:6000", nil))
	}()

	pies, err := loadPies(pieConfig)
	if err != nil {
		log.Fatalf("load pies: %v", err)
	}
	cat, err := catalog.New(pies)
	if err != nil {
		log.Fatalf("build catalog: %v", err)
	}

	store, err := newStore(pieConfig)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	if err := service.SeedInventory(store, cat); err != nil {
		log.Fatalf("seed inventory: %v", err)
	}

	purchaseService, err := service.NewPurchaseService(store, cat, pieConfig.Purchase.BlacklistCacheSize)
	if err != nil {
		log.Fatalf("create purchase service: %v", err)
	}

	pushServer := pushing.NewServer(pieConfig.PushServer.Addr, pieConfig.PushServer.Path)
	purchaseService.AddObserver(pushServer)
	go pushServer.Run()

	if len(pieConfig.Kafka.Brokers) > 0 {
		purchaseLogger := worker.NewPurchaseLogger(worker.NewKafkaLogStore(pieConfig.Kafka.Topic, pieConfig.Kafka.Brokers))
		purchaseLogger.Start()
		purchaseService.AddObserver(purchaseLogger)
	} else {
		log.Warn("no kafka brokers configured, purchase log disabled")
	}

	go rest.NewHttpServer(pieConfig.RestServer.Addr, store, cat, purchaseService).Start()
	log.Infof("pie engine started with %v pies", cat.Len())

	select {}
}

func loadPies(pieConfig *conf.PieConfig) ([]*models.Pie, error) {
	if pieConfig.Catalog.Source == conf.CatalogSourceMysql {
		db, err := mysql.NewStore(pieConfig.DataSource)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.GetPies()
	}
	return catalog.Load(pieConfig.Catalog.File)
}

func newStore(pieConfig *conf.PieConfig) (models.Store, error) {
	if pieConfig.Store.Driver == conf.StoreDriverMemory {
		return memory.NewStore(), nil
	}
	store := redis.NewStoreFromAddr(pieConfig.Redis.Addr, pieConfig.Redis.Password, pieConfig.Redis.DB)
	if err := store.Ping(); err != nil {
		return nil, err
	}
	return store, nil
}
