package main

import (
	"context"

	formmodels "meta_forms/internal/api/form/models"
	locationmodels "meta_forms/internal/api/location/models"
	"meta_forms/internal/database"
	"meta_forms/internal/global"
)

// initIndexes đồng bộ index của từng collection theo tag `index` trên model
func initIndexes(ctx context.Context) error {
	type entry struct {
		collection string
		model      any
	}
	entries := []entry{
		{global.ColFormSchemas, formmodels.FormSchema{}},
		{global.ColSubmissions, formmodels.Submission{}},
		{global.ColStates, locationmodels.State{}},
		{global.ColDistricts, locationmodels.District{}},
		{global.ColAssemblies, locationmodels.LegislativeAssembly{}},
		{global.ColBooths, locationmodels.Booth{}},
	}

	for _, e := range entries {
		if err := database.CreateIndexes(ctx, global.GetCollection(e.collection), e.model); err != nil {
			return err
		}
	}
	return nil
}
