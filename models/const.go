/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package models

import "fmt"

const (
	// AllowedSlices is how many slices of one pie a user may buy, ever.
	AllowedSlices = 3

	KeySoldOut = "global-sold-out"
)

func RemainingKey(pieId int64) string {
	return fmt.Sprintf("item-%v-remaining", pieId)
}

func PurchasesKey(pieId int64) string {
	return fmt.Sprintf("item-%v-purchases", pieId)
}

func BlacklistKey(username string) string {
	return fmt.Sprintf("user-%v-blacklist", username)
}
