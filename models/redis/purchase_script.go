/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package redis

import (
	"fmt"

	goredis "github.com/go-redis/redis"
	"github.com/jhblack-olya/pie-engine/models"
)

const (
	codeSuccess = iota
	codeBlacklisted
	codeSoldOut
	codeNotEnough
	codeCapReached
)

// KEYS: remaining, purchases, blacklist, sold-out
// ARGV: username, position, slices, cap
// returns {code, remaining, purchased, blacklisted, soldOut}
var purchaseScript = goredis.NewScript(`
local pos = tonumber(ARGV[2])
local slices = tonumber(ARGV[3])
local cap = tonumber(ARGV[4])

if redis.call('GETBIT', KEYS[3], pos) == 1 then
	return {1, 0, 0, 1, 0}
end

local remaining = tonumber(redis.call('GET', KEYS[1]) or '0')
if remaining <= 0 then
	return {2, remaining, 0, 0, 0}
end
if slices > remaining then
	return {3, remaining, 0, 0, 0}
end

local prior = tonumber(redis.call('HGET', KEYS[2], ARGV[1]) or '0')
if prior + slices > cap then
	return {4, remaining, prior, 0, 0}
end

local total = redis.call('HINCRBY', KEYS[2], ARGV[1], slices)
local left = redis.call('DECRBY', KEYS[1], slices)
local blacklisted = 0
local soldOut = 0
if total == cap then
	redis.call('SETBIT', KEYS[3], pos, 1)
	blacklisted = 1
end
if left <= 0 then
	redis.call('SETBIT', KEYS[4], pos, 1)
	soldOut = 1
end
return {0, left, total, blacklisted, soldOut}
`)

func (s *Store) CommitPurchase(intent *models.PurchaseIntent) (*models.PurchaseOutcome, error) {
	keys := []string{
		models.RemainingKey(intent.PieId),
		models.PurchasesKey(intent.PieId),
		models.BlacklistKey(intent.Username),
		models.KeySoldOut,
	}
	ret, err := purchaseScript.Run(s.client, keys, intent.Username, intent.Position, intent.Slices, intent.Cap).Result()
	if err != nil {
		return nil, unavailable(err)
	}

	vals, ok := ret.([]interface{})
	if !ok || len(vals) != 5 {
		return nil, fmt.Errorf("unexpected purchase script reply: %v", ret)
	}
	nums := make([]int64, len(vals))
	for i, val := range vals {
		n, ok := val.(int64)
		if !ok {
			return nil, fmt.Errorf("unexpected purchase script reply: %v", ret)
		}
		nums[i] = n
	}

	outcome := &models.PurchaseOutcome{
		Remaining:   nums[1],
		Purchased:   nums[2],
		Blacklisted: nums[3] == 1,
		SoldOut:     nums[4] == 1,
	}
	switch nums[0] {
	case codeSuccess:
		outcome.Status = models.PurchaseStatusSuccess
	case codeBlacklisted:
		outcome.Status, outcome.Reason = models.PurchaseStatusOverLimit, models.RejectReasonBlacklisted
	case codeSoldOut:
		outcome.Status, outcome.Reason = models.PurchaseStatusOutOfStock, models.RejectReasonSoldOut
	case codeNotEnough:
		outcome.Status, outcome.Reason = models.PurchaseStatusOutOfStock, models.RejectReasonNotEnough
	case codeCapReached:
		outcome.Status, outcome.Reason = models.PurchaseStatusOverLimit, models.RejectReasonCapReached
	default:
		return nil, fmt.Errorf("unknown purchase script code %v", nums[0])
	}
	return outcome, nil
}
