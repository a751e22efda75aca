package repository

import (
	"context"

	"github.com/tokyo-lab/workout-tracker-app/internal/models"
)

// CatalogRepository reads the exercise catalog reference tables. The catalog
// is never written by this service.
type CatalogRepository struct {
	db DBTX
}

func NewCatalogRepository(db DBTX) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetExerciseByID(ctx context.Context, catalogExerciseID int64) (*models.CatalogExercise, error) {
	query := `
		SELECT ec.id, ec.name, ec.muscle_group_id, ec.equipment_id, mg.name, eq.name
		FROM exercise_catalog ec
		JOIN muscle_groups mg ON ec.muscle_group_id = mg.id
		JOIN equipment_catalog eq ON ec.equipment_id = eq.id
		WHERE ec.id = $1
	`

	var exercise models.CatalogExercise
	err := r.db.QueryRow(ctx, query, catalogExerciseID).Scan(
		&exercise.ID,
		&exercise.Name,
		&exercise.MuscleGroupID,
		&exercise.EquipmentID,
		&exercise.Muscle,
		&exercise.Equipment,
	)
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}
