package migrations

import (
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/daos"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/models"
	"github.com/pocketbase/pocketbase/models/schema"
	"github.com/pocketbase/pocketbase/tools/types"
)

const (
	consumptionTypeCollectionID   = "c0nstypec0llect"
	consumptionOrderCollectionID  = "c0ns0rderc0llec"
	consumptionTicketCollectionID = "c0nstcktc0llect"
)

func init() {
	m.Register(func(db dbx.Builder) error {
		dao := daos.New(db)

		consumptionType := &models.Collection{
			Name: "consumption_ticket_type",
			Type: models.CollectionTypeBase,
			Schema: schema.NewSchema(
				&schema.SchemaField{
					Name:     "club_id",
					Type:     schema.FieldTypeRelation,
					Required: true,
					Options: &schema.RelationOptions{
						CollectionId: clubCollectionID,
						MaxSelect:    types.Pointer(1),
					},
				},
				&schema.SchemaField{Name: "name", Type: schema.FieldTypeText, Required: true},
				&schema.SchemaField{Name: "description", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "category", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "price", Type: schema.FieldTypeNumber},
				&schema.SchemaField{Name: "image_url", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "is_active", Type: schema.FieldTypeBool},
			),
		}
		consumptionType.Id = consumptionTypeCollectionID
		if err := dao.SaveCollection(consumptionType); err != nil {
			return err
		}

		consumptionOrder := &models.Collection{
			Name: "consumption_order",
			Type: models.CollectionTypeBase,
			Schema: schema.NewSchema(
				&schema.SchemaField{Name: "user_id", Type: schema.FieldTypeText, Required: true},
				&schema.SchemaField{
					Name: "event_id",
					Type: schema.FieldTypeRelation,
					Options: &schema.RelationOptions{
						CollectionId: eventCollectionID,
						MaxSelect:    types.Pointer(1),
					},
				},
				&schema.SchemaField{Name: "order_date", Type: schema.FieldTypeDate},
				&schema.SchemaField{
					Name: "status",
					Type: schema.FieldTypeSelect,
					Options: &schema.SelectOptions{
						MaxSelect: 1,
						Values:    []string{"pending", "paid", "cancelled"},
					},
				},
				&schema.SchemaField{Name: "total_amount", Type: schema.FieldTypeNumber},
				&schema.SchemaField{
					Name:    "items",
					Type:    schema.FieldTypeJson,
					Options: &schema.JsonOptions{MaxSize: 2000000},
				},
			),
		}
		consumptionOrder.Id = consumptionOrderCollectionID
		if err := dao.SaveCollection(consumptionOrder); err != nil {
			return err
		}

		consumptionTicket := &models.Collection{
			Name: "consumption_ticket",
			Type: models.CollectionTypeBase,
			Schema: schema.NewSchema(
				&schema.SchemaField{
					Name: "order_id",
					Type: schema.FieldTypeRelation,
					Options: &schema.RelationOptions{
						CollectionId: consumptionOrderCollectionID,
						MaxSelect:    types.Pointer(1),
					},
				},
				&schema.SchemaField{
					Name: "type_id",
					Type: schema.FieldTypeRelation,
					Options: &schema.RelationOptions{
						CollectionId: consumptionTypeCollectionID,
						MaxSelect:    types.Pointer(1),
					},
				},
				&schema.SchemaField{
					Name: "event_id",
					Type: schema.FieldTypeRelation,
					Options: &schema.RelationOptions{
						CollectionId: eventCollectionID,
						MaxSelect:    types.Pointer(1),
					},
				},
				&schema.SchemaField{Name: "user_id", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "is_consumed", Type: schema.FieldTypeBool},
				&schema.SchemaField{Name: "consumed_at", Type: schema.FieldTypeDate},
				&schema.SchemaField{Name: "validation_code", Type: schema.FieldTypeText},
			),
		}
		consumptionTicket.Id = consumptionTicketCollectionID
		return dao.SaveCollection(consumptionTicket)
	}, func(db dbx.Builder) error {
		dao := daos.New(db)

		for _, id := range []string{consumptionTicketCollectionID, consumptionOrderCollectionID, consumptionTypeCollectionID} {
			collection, err := dao.FindCollectionByNameOrId(id)
			if err != nil {
				return err
			}
			if err := dao.DeleteCollection(collection); err != nil {
				return err
			}
		}
		return nil
	})
}
