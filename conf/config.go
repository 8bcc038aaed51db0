/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/
package conf

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	CatalogSourceFile  = "file"
	CatalogSourceMysql = "mysql"

	StoreDriverRedis  = "redis"
	StoreDriverMemory = "memory"
)

type PieConfig struct {
	DataSource DataSourceConfig `json:"dataSource"`
	Redis      RedisConfig      `json:"redis"`
	Kafka      KafkaConfig      `json:"kafka"`
	PushServer PushServerConfig `json:"pushServer"`
	RestServer RestServerConfig `json:"restServer"`
	Catalog    CatalogConfig    `json:"catalog"`
	Store      StoreConfig      `json:"store"`
	Purchase   PurchaseConfig   `json:"purchase"`
}

type DataSourceConfig struct {
	DriverName string `json:"driverName"`
	Addr       string `json:"addr"`
	Database   string `json:"database"`
	User       string `json:"user"`
	Password   string `json:"password"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type KafkaConfig struct {
	Brokers []string `json:"brokers"`
	Topic   string   `json:"topic"`
}

type PushServerConfig struct {
	Addr string `json:"addr"`
	Path string `json:"path"`
}

type RestServerConfig struct {
	Addr string `json:"addr"`
}

type CatalogConfig struct {
	// file or mysql
	Source string `json:"source"`
	File   string `json:"file"`
}

type StoreConfig struct {
	// redis or memory
	Driver string `json:"driver"`
}

type PurchaseConfig struct {
	BlacklistCacheSize int `json:"blacklistCacheSize"`
}

var config *PieConfig
var configOnce sync.Once

func GetConfig() *PieConfig {
	configOnce.Do(func() {
		configFile := flag.String("config", "conf.json", "run with config file, refer to README.md file")
		flag.Parse()

		var err error
		config, err = LoadConfig(*configFile)
		if err != nil {
			panic(err)
		}
	})
	return config
}

// LoadConfig reads a json config file, then applies .env and PIE_* environment
// overrides on top of it.
func LoadConfig(fileName string) (*PieConfig, error) {
	bytes, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	cfg := &PieConfig{}
	err = json.Unmarshal(bytes, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse %v: %v", fileName, err)
	}

	// a missing .env is fine
	_ = godotenv.Load()
	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *PieConfig) {
	if v := os.Getenv("PIE_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("PIE_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("PIE_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("PIE_CATALOG_FILE"); v != "" {
		cfg.Catalog.File = v
	}
	if v := os.Getenv("PIE_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
}

func applyDefaults(cfg *PieConfig) {
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = CatalogSourceFile
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreDriverRedis
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "pie_purchases"
	}
	if cfg.PushServer.Path == "" {
		cfg.PushServer.Path = "/ws"
	}
	if cfg.Purchase.BlacklistCacheSize <= 0 {
		cfg.Purchase.BlacklistCacheSize = 10000
	}
}
