/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package rule

import (
	"fmt"
	"sort"

	"github.com/shardroute/shardroute/config"

	"github.com/pkg/errors"
)

// Uniform spreads tablesPerDataSource actual tables named '<table>_<i>' to every data source.
// The data sources are sorted, the strategies are left to the caller.
func Uniform(table string, dataSources []string, tablesPerDataSource int) (*config.TableConfig, error) {
	if table == "" {
		return nil, errors.New("table.cant.be.null")
	}
	nums := len(dataSources)
	if nums == 0 {
		return nil, errors.New("rule.compute.data-sources.is.null")
	}
	if tablesPerDataSource <= 0 {
		return nil, errors.Errorf("rule.compute.tables.per.data-source[%d].must.be.positive", tablesPerDataSource)
	}

	sorted := make([]string, nums)
	copy(sorted, dataSources)
	sort.Strings(sorted)

	tableConf := &config.TableConfig{
		Name:            table,
		ActualDataNodes: make(config.DataNodes, 0, nums*tablesPerDataSource),
	}
	for _, ds := range sorted {
		for i := 0; i < tablesPerDataSource; i++ {
			tableConf.ActualDataNodes = append(tableConf.ActualDataNodes, fmt.Sprintf("%s.%s_%d", ds, table, i))
		}
	}
	return tableConf, nil
}
