package domain

// BuiltinExercises is the fixed name library offered for each category.
var BuiltinExercises = map[ExerciseType][]string{
	TypeStrengthTraining: {
		"Bench Press",
		"Squat",
		"Deadlift",
		"Shoulder Press",
		"Lat Pulldown",
		"Bicep Curl",
		"Tricep Extension",
		"Leg Press",
		"Leg Extension",
		"Leg Curl",
		"Chest Fly",
		"Chest Row",
		"T-Bar Row",
		"Cable Row",
		"Barbell Row",
	},
	TypeCardio: {
		"Treadmill",
		"Elliptical",
		"Stair Climber",
		"Exercise Bike",
		"Rowing Machine",
		"Jump Rope",
		"Swimming",
		"Running",
		"Cycling",
	},
	TypeFlexibility: {
		"Hamstring Stretch",
		"Quad Stretch",
		"Shoulder Stretch",
		"Hip Flexor Stretch",
		"Calf Stretch",
		"Yoga",
		"Pilates",
	},
	TypeBodyweight: {
		"Push-up",
		"Pull-up",
		"Dip",
		"Plank",
		"Sit-up",
		"Crunch",
		"Burpee",
		"Lunge",
		"Squat Jump",
		"Mountain Climber",
	},
	TypeFunctional: {
		"Kettlebell Swing",
		"Battle Ropes",
		"Box Jump",
		"Medicine Ball Throw",
		"TRX Suspension Training",
		"Sled Push/Pull",
		"Farmer's Walk",
	},
}

// IsBuiltinExercise reports whether name is part of the fixed library for the type.
func IsBuiltinExercise(t ExerciseType, name string) bool {
	for _, n := range BuiltinExercises[t] {
		if n == name {
			return true
		}
	}
	return false
}
