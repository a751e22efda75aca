package models

// CatalogExercise is read-only reference data; the tree's Exercise rows point
// at it via catalog_exercise_id.
type CatalogExercise struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	MuscleGroupID int64  `json:"muscle_group_id"`
	EquipmentID   int64  `json:"equipment_id"`
	Muscle        string `json:"muscle,omitempty"`
	Equipment     string `json:"equipment,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
}
