package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("parking_lots")
		collection.Fields.Add(
			&core.TextField{Name: "name", Required: true},
			&core.TextField{Name: "address"},
			&core.NumberField{Name: "capacity"},
			&core.SelectField{
				Name:      "status",
				Values:    []string{"open", "closed"},
				MaxSelect: 1,
			},
		)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("parking_lots")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
