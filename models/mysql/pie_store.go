/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package mysql

import (
	"github.com/jhblack-olya/pie-engine/models"
)

func (s *Store) GetPies() ([]*models.Pie, error) {
	var pies []*models.Pie
	err := s.db.Order("price_per_slice ASC, id ASC").Find(&pies).Error
	if err != nil {
		return nil, err
	}

	var labels []*models.PieLabel
	err = s.db.Order("pie_id ASC, label ASC").Find(&labels).Error
	if err != nil {
		return nil, err
	}

	byId := make(map[int64]*models.Pie, len(pies))
	for _, pie := range pies {
		byId[pie.Id] = pie
	}
	for _, label := range labels {
		if pie, found := byId[label.PieId]; found {
			pie.Labels = append(pie.Labels, label.Label)
		}
	}
	return pies, nil
}
