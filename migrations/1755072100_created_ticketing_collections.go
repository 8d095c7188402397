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
	ticketCollectionID  = "t1cketc0llecti0"
	qrScanCollectionID  = "qrscanc0llecti0"
	paymentCollectionID = "paymentc0llect1"
)

func init() {
	m.Register(func(db dbx.Builder) error {
		dao := daos.New(db)

		ticket := &models.Collection{
			Name: "ticket",
			Type: models.CollectionTypeBase,
			Schema: schema.NewSchema(
				&schema.SchemaField{Name: "user_id", Type: schema.FieldTypeText, Required: true},
				&schema.SchemaField{
					Name:     "event_id",
					Type:     schema.FieldTypeRelation,
					Required: true,
					Options: &schema.RelationOptions{
						CollectionId: eventCollectionID,
						MaxSelect:    types.Pointer(1),
					},
				},
				&schema.SchemaField{Name: "price", Type: schema.FieldTypeNumber},
				&schema.SchemaField{
					Name: "status",
					Type: schema.FieldTypeSelect,
					Options: &schema.SelectOptions{
						MaxSelect: 1,
						Values:    []string{"valid", "used", "refunded"},
					},
				},
				&schema.SchemaField{Name: "is_used", Type: schema.FieldTypeBool},
				&schema.SchemaField{Name: "used_at", Type: schema.FieldTypeDate},
				&schema.SchemaField{Name: "purchase_date", Type: schema.FieldTypeDate},
			),
		}
		ticket.Id = ticketCollectionID
		if err := dao.SaveCollection(ticket); err != nil {
			return err
		}

		qrScan := &models.Collection{
			Name: "qr_scan",
			Type: models.CollectionTypeBase,
			Schema: schema.NewSchema(
				&schema.SchemaField{Name: "scanner_id", Type: schema.FieldTypeText, Required: true},
				&schema.SchemaField{Name: "content", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "payload_type", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "is_valid", Type: schema.FieldTypeBool},
				&schema.SchemaField{Name: "scanned_at", Type: schema.FieldTypeDate},
			),
		}
		qrScan.Id = qrScanCollectionID
		if err := dao.SaveCollection(qrScan); err != nil {
			return err
		}

		payment := &models.Collection{
			Name: "payment",
			Type: models.CollectionTypeBase,
			Schema: schema.NewSchema(
				&schema.SchemaField{Name: "user_id", Type: schema.FieldTypeText, Required: true},
				&schema.SchemaField{Name: "method", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "amount", Type: schema.FieldTypeNumber},
				&schema.SchemaField{
					Name: "status",
					Type: schema.FieldTypeSelect,
					Options: &schema.SelectOptions{
						MaxSelect: 1,
						Values:    []string{"pending", "completed", "failed", "refunded"},
					},
				},
				&schema.SchemaField{Name: "reference", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "refund_id", Type: schema.FieldTypeText},
			),
		}
		payment.Id = paymentCollectionID
		return dao.SaveCollection(payment)
	}, func(db dbx.Builder) error {
		dao := daos.New(db)

		for _, id := range []string{paymentCollectionID, qrScanCollectionID, ticketCollectionID} {
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
