package migrations

import (
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/daos"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/models"
	"github.com/pocketbase/pocketbase/models/schema"
	"github.com/pocketbase/pocketbase/tools/types"
)

// Fixed collection ids so relation fields can reference them across
// migration files.
const (
	clubCollectionID    = "c1ubc0llecti0n1"
	profileCollectionID = "pr0filec0llect1"
	adminCollectionID   = "adm1nc0llecti0n"
	eventCollectionID   = "eventc0llecti0n"
)

func init() {
	m.Register(func(db dbx.Builder) error {
		dao := daos.New(db)

		club := &models.Collection{
			Name: "club",
			Type: models.CollectionTypeBase,
			Schema: schema.NewSchema(
				&schema.SchemaField{Name: "name", Type: schema.FieldTypeText, Required: true},
				&schema.SchemaField{Name: "address", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "phone", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "email", Type: schema.FieldTypeEmail},
				&schema.SchemaField{Name: "whatsapp_number", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "logo", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "is_active", Type: schema.FieldTypeBool},
			),
		}
		club.Id = clubCollectionID
		if err := dao.SaveCollection(club); err != nil {
			return err
		}

		profile := &models.Collection{
			Name: "profile",
			Type: models.CollectionTypeBase,
			Schema: schema.NewSchema(
				&schema.SchemaField{Name: "firstname", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "lastname", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "email", Type: schema.FieldTypeEmail},
				&schema.SchemaField{Name: "phone", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "identity_card_url", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "is_verified", Type: schema.FieldTypeBool},
				&schema.SchemaField{
					Name:    "loyalty_points",
					Type:    schema.FieldTypeNumber,
					Options: &schema.NumberOptions{NoDecimal: true},
				},
			),
		}
		profile.Id = profileCollectionID
		if err := dao.SaveCollection(profile); err != nil {
			return err
		}

		admin := &models.Collection{
			Name: "admin",
			Type: models.CollectionTypeBase,
			Schema: schema.NewSchema(
				&schema.SchemaField{Name: "email", Type: schema.FieldTypeEmail, Required: true},
				&schema.SchemaField{Name: "first_name", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "last_name", Type: schema.FieldTypeText},
				&schema.SchemaField{
					Name: "club_id",
					Type: schema.FieldTypeRelation,
					Options: &schema.RelationOptions{
						CollectionId: clubCollectionID,
						MaxSelect:    types.Pointer(1),
					},
				},
				&schema.SchemaField{Name: "role", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "is_active", Type: schema.FieldTypeBool},
			),
		}
		admin.Id = adminCollectionID
		if err := dao.SaveCollection(admin); err != nil {
			return err
		}

		event := &models.Collection{
			Name: "event",
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
				&schema.SchemaField{Name: "event_date", Type: schema.FieldTypeDate},
				&schema.SchemaField{Name: "presale_end_time", Type: schema.FieldTypeDate},
				&schema.SchemaField{Name: "ticket_price", Type: schema.FieldTypeNumber},
				&schema.SchemaField{
					Name:    "max_capacity",
					Type:    schema.FieldTypeNumber,
					Options: &schema.NumberOptions{NoDecimal: true},
				},
				&schema.SchemaField{
					Name:    "sold_tickets",
					Type:    schema.FieldTypeNumber,
					Options: &schema.NumberOptions{NoDecimal: true},
				},
				&schema.SchemaField{Name: "is_active", Type: schema.FieldTypeBool},
				&schema.SchemaField{Name: "image_url", Type: schema.FieldTypeText},
				&schema.SchemaField{
					Name: "status",
					Type: schema.FieldTypeSelect,
					Options: &schema.SelectOptions{
						MaxSelect: 1,
						Values:    []string{"active", "cancelled"},
					},
				},
				&schema.SchemaField{Name: "cancelled_at", Type: schema.FieldTypeDate},
				&schema.SchemaField{
					Name: "refund_status",
					Type: schema.FieldTypeSelect,
					Options: &schema.SelectOptions{
						MaxSelect: 1,
						Values:    []string{"pending", "processing", "completed"},
					},
				},
			),
		}
		event.Id = eventCollectionID
		return dao.SaveCollection(event)
	}, func(db dbx.Builder) error {
		dao := daos.New(db)

		for _, id := range []string{eventCollectionID, adminCollectionID, profileCollectionID, clubCollectionID} {
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
