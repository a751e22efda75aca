package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tokyo-lab/workout-tracker-app/internal/config"
	"github.com/tokyo-lab/workout-tracker-app/internal/handlers"
	"github.com/tokyo-lab/workout-tracker-app/internal/middleware"
	"github.com/tokyo-lab/workout-tracker-app/internal/repository"
	"github.com/tokyo-lab/workout-tracker-app/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	programRepo := repository.NewProgramRepository(db)
	workoutRepo := repository.NewWorkoutRepository(db)
	exerciseRepo := repository.NewExerciseRepository(db)
	setRepo := repository.NewSetRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	activeProgramRepo := repository.NewActiveProgramRepository(db)

	programService := services.NewProgramService(db, programRepo, workoutRepo, exerciseRepo, setRepo)
	workoutService := services.NewWorkoutService(db, workoutRepo, exerciseRepo, setRepo, catalogRepo)
	activeProgramService := services.NewActiveProgramService(activeProgramRepo, programRepo)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	programHandler := handlers.NewProgramHandler(programService)
	workoutHandler := handlers.NewWorkoutHandler(workoutService)
	activeProgramHandler := handlers.NewActiveProgramHandler(activeProgramService)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	// Program tree: create, full replace, cascade delete, nested reads.
	api.Post("/programs", programHandler.CreateProgram)
	api.Put("/programs/:program_id", programHandler.ReplaceProgram)
	api.Delete("/programs/:program_id", programHandler.DeleteProgram)
	api.Get("/programs/:program_id", programHandler.GetProgram)
	api.Get("/users/:user_id/programs", programHandler.GetUserPrograms)

	// Single-row writes used in active-workout mode.
	api.Post("/workouts/:workout_id/exercises", workoutHandler.AddExercise)
	api.Delete("/exercises/:exercise_id", workoutHandler.RemoveExercise)
	api.Post("/exercises/:exercise_id/sets", workoutHandler.AddSet)
	api.Put("/sets/:set_id", workoutHandler.UpdateSet)
	api.Delete("/sets/:set_id", workoutHandler.RemoveSet)

	// Active program assignment, independent of program edits.
	api.Put("/users/:user_id/active-program", activeProgramHandler.SetActiveProgram)
	api.Get("/users/:user_id/active-program", activeProgramHandler.GetActiveProgram)
	api.Delete("/users/:user_id/active-program", activeProgramHandler.ClearActiveProgram)
}
