/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package redis

import (
	"fmt"
	"strconv"

	goredis "github.com/go-redis/redis"
	"github.com/jhblack-olya/pie-engine/models"
)

// Store keeps the pie state in redis using the key layout in models/const.go.
type Store struct {
	client *goredis.Client
}

func NewStore(client *goredis.Client) *Store {
	return &Store{client: client}
}

func NewStoreFromAddr(addr, password string, db int) *Store {
	return NewStore(goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}))
}

func (s *Store) Close() error {
	return s.client.Close()
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
}

func (s *Store) Ping() error {
	if err := s.client.Ping().Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *Store) GetRemaining(pieId int64) (int64, error) {
	n, err := s.client.Get(models.RemainingKey(pieId)).Int64()
	if err == goredis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable(err)
	}
	return n, nil
}

func (s *Store) GetAllRemaining(pieIds []int64) ([]int64, error) {
	if len(pieIds) == 0 {
		return nil, nil
	}
	keys := make([]string, len(pieIds))
	for i, id := range pieIds {
		keys[i] = models.RemainingKey(id)
	}

	vals, err := s.client.MGet(keys...).Result()
	if err != nil {
		return nil, unavailable(err)
	}

	out := make([]int64, len(vals))
	for i, val := range vals {
		str, ok := val.(string)
		if !ok {
			continue
		}
		out[i], err = strconv.ParseInt(str, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad counter %v: %v", keys[i], err)
		}
	}
	return out, nil
}

func (s *Store) SetRemaining(pieId int64, slices int64) error {
	if err := s.client.Set(models.RemainingKey(pieId), slices, 0).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *Store) InitRemaining(pieId int64, slices int64) (bool, error) {
	ok, err := s.client.SetNX(models.RemainingKey(pieId), slices, 0).Result()
	if err != nil {
		return false, unavailable(err)
	}
	return ok, nil
}

func (s *Store) IncrRemaining(pieId int64, delta int64) (int64, error) {
	n, err := s.client.IncrBy(models.RemainingKey(pieId), delta).Result()
	if err != nil {
		return 0, unavailable(err)
	}
	return n, nil
}

func (s *Store) GetPurchase(pieId int64, username string) (int64, bool, error) {
	n, err := s.client.HGet(models.PurchasesKey(pieId), username).Int64()
	if err == goredis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, unavailable(err)
	}
	return n, true, nil
}

func (s *Store) IncrPurchase(pieId int64, username string, delta int64) (int64, error) {
	n, err := s.client.HIncrBy(models.PurchasesKey(pieId), username, delta).Result()
	if err != nil {
		return 0, unavailable(err)
	}
	return n, nil
}

func (s *Store) GetPurchases(pieId int64) (map[string]int64, error) {
	vals, err := s.client.HGetAll(models.PurchasesKey(pieId)).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	out := make(map[string]int64, len(vals))
	for user, val := range vals {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad ledger entry %v for %v: %v", val, user, err)
		}
		out[user] = n
	}
	return out, nil
}

func (s *Store) GetBlacklist(username string) ([]byte, error) {
	return s.getBitmap(models.BlacklistKey(username))
}

func (s *Store) IsBlacklisted(username string, position int) (bool, error) {
	return s.getBit(models.BlacklistKey(username), position)
}

func (s *Store) SetBlacklisted(username string, position int) error {
	return s.setBit(models.BlacklistKey(username), position)
}

func (s *Store) GetSoldOut() ([]byte, error) {
	return s.getBitmap(models.KeySoldOut)
}

func (s *Store) IsSoldOut(position int) (bool, error) {
	return s.getBit(models.KeySoldOut, position)
}

func (s *Store) SetSoldOut(position int) error {
	return s.setBit(models.KeySoldOut, position)
}

func (s *Store) getBitmap(key string) ([]byte, error) {
	b, err := s.client.Get(key).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return b, nil
}

func (s *Store) getBit(key string, position int) (bool, error) {
	bit, err := s.client.GetBit(key, int64(position)).Result()
	if err != nil {
		return false, unavailable(err)
	}
	return bit == 1, nil
}

func (s *Store) setBit(key string, position int) error {
	if err := s.client.SetBit(key, int64(position), 1).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}
