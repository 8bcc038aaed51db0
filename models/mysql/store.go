/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package mysql

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	"github.com/siddontang/go-log/log"

	"github.com/jhblack-olya/pie-engine/conf"
)

// Store reads the pie catalog. Inventory never lives here; see models/redis.
type Store struct {
	db *gorm.DB
}

func NewStore(cfg conf.DataSourceConfig) (*Store, error) {
	url := fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Addr, cfg.Database)
	db, err := gorm.Open(cfg.DriverName, url)
	if err != nil {
		return nil, err
	}
	db.SingularTable(true)
	db.DB().SetMaxIdleConns(2)
	db.DB().SetMaxOpenConns(4)

	log.Infof("catalog database %v@%v ready", cfg.Database, cfg.Addr)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
