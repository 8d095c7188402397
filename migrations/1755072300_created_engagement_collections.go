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
	gameCollectionID          = "gamec0llecti0n1"
	participationCollectionID = "gamepartc0llect"
	loyaltyCollectionID       = "l0yaltyc0llect1"
	notificationCollectionID  = "n0tifc0llecti0n"
	reservationCollectionID   = "tableresc0llect"
)

func init() {
	m.Register(func(db dbx.Builder) error {
		dao := daos.New(db)

		game := &models.Collection{
			Name: "game",
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
				&schema.SchemaField{Name: "is_active", Type: schema.FieldTypeBool},
				&schema.SchemaField{Name: "start_date", Type: schema.FieldTypeDate},
				&schema.SchemaField{Name: "end_date", Type: schema.FieldTypeDate},
				&schema.SchemaField{Name: "winner_id", Type: schema.FieldTypeText},
			),
		}
		game.Id = gameCollectionID
		if err := dao.SaveCollection(game); err != nil {
			return err
		}

		participation := &models.Collection{
			Name: "game_participation",
			Type: models.CollectionTypeBase,
			Schema: schema.NewSchema(
				&schema.SchemaField{
					Name:     "game_id",
					Type:     schema.FieldTypeRelation,
					Required: true,
					Options: &schema.RelationOptions{
						CollectionId: gameCollectionID,
						MaxSelect:    types.Pointer(1),
					},
				},
				&schema.SchemaField{Name: "user_id", Type: schema.FieldTypeText, Required: true},
				&schema.SchemaField{Name: "is_winner", Type: schema.FieldTypeBool},
				&schema.SchemaField{Name: "prize_won", Type: schema.FieldTypeText},
			),
		}
		participation.Id = participationCollectionID
		if err := dao.SaveCollection(participation); err != nil {
			return err
		}

		loyalty := &models.Collection{
			Name: "loyalty_transaction",
			Type: models.CollectionTypeBase,
			Schema: schema.NewSchema(
				&schema.SchemaField{Name: "user_id", Type: schema.FieldTypeText, Required: true},
				&schema.SchemaField{Name: "type", Type: schema.FieldTypeText},
				&schema.SchemaField{
					Name:    "points_earned",
					Type:    schema.FieldTypeNumber,
					Options: &schema.NumberOptions{NoDecimal: true},
				},
				&schema.SchemaField{
					Name:    "points_spent",
					Type:    schema.FieldTypeNumber,
					Options: &schema.NumberOptions{NoDecimal: true},
				},
			),
		}
		loyalty.Id = loyaltyCollectionID
		if err := dao.SaveCollection(loyalty); err != nil {
			return err
		}

		notification := &models.Collection{
			Name: "notification",
			Type: models.CollectionTypeBase,
			Schema: schema.NewSchema(
				&schema.SchemaField{Name: "user_id", Type: schema.FieldTypeText, Required: true},
				&schema.SchemaField{Name: "title", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "body", Type: schema.FieldTypeText},
				&schema.SchemaField{Name: "is_read", Type: schema.FieldTypeBool},
			),
		}
		notification.Id = notificationCollectionID
		if err := dao.SaveCollection(notification); err != nil {
			return err
		}

		reservation := &models.Collection{
			Name: "table_reservation",
			Type: models.CollectionTypeBase,
			Schema: schema.NewSchema(
				&schema.SchemaField{
					Name: "club_id",
					Type: schema.FieldTypeRelation,
					Options: &schema.RelationOptions{
						CollectionId: clubCollectionID,
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
				&schema.SchemaField{Name: "user_id", Type: schema.FieldTypeText, Required: true},
				&schema.SchemaField{Name: "table_number", Type: schema.FieldTypeText},
				&schema.SchemaField{
					Name: "status",
					Type: schema.FieldTypeSelect,
					Options: &schema.SelectOptions{
						MaxSelect: 1,
						Values:    []string{"pending", "confirmed", "cancelled"},
					},
				},
			),
		}
		reservation.Id = reservationCollectionID
		return dao.SaveCollection(reservation)
	}, func(db dbx.Builder) error {
		dao := daos.New(db)

		for _, id := range []string{reservationCollectionID, notificationCollectionID, loyaltyCollectionID, participationCollectionID, gameCollectionID} {
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
