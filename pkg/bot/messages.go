package bot

const (
	msgWelcomeNew = "Hi! I'm your personal health assistant. 🌿\n" +
		"I can plan meals, suggest workouts, keep health and mood diaries and connect you with a specialist.\n" +
		"Let's start with a short profile so my advice fits you."
	msgWelcomeBack    = "Welcome back! What shall we do today?"
	msgMainMenu       = "Main menu:"
	msgNotUnderstood  = "Sorry, I didn't understand that. Please use the buttons below."
	msgCancelled      = "Cancelled."
	msgNothingToStop  = "There is nothing to cancel."
	msgBackendFailed  = "Sorry, I couldn't get an answer right now. Please try again a bit later."
	msgProfileNeeded  = "Please fill in your profile first so the advice fits you."
	msgChooseSpecial  = "Which specialist would you like to talk to?"
	msgHealthMenu     = "Health diary. What would you like to record?"
	msgDiariesMenu    = "Which diary would you like to see?"
	msgAskSymptom     = "Describe how you feel. What bothers you and since when?"
	msgAskPressure    = "Enter your blood pressure as two numbers, for example 120/80."
	msgBadPressure    = "That doesn't look like a blood pressure reading. Please enter it like 120/80."
	msgAskSugar       = "Enter your blood sugar in mmol/L, for example 5.6."
	msgBadSugar       = "Please enter a number between 0 and 50, for example 5.6."
	msgAskQuestion    = "Write your question and I'll answer as your %s."
	msgAskProduct     = "Which product should I look up?"
	msgAskLocation    = "Where will you train?"
	msgBadLocation    = "Please choose one of the options below."
	msgAskFoodPhoto   = "Send me a photo of your meal and I'll estimate what's on the plate."
	msgPhotoExpected  = "I'm waiting for a photo of your meal. Send one, or press Cancel."
	msgTextExpected   = "Please answer with text."
	msgAskMood        = "How are you feeling right now?"
	msgProfileSaved   = "Profile saved! 🎉"
	msgProfileUpdated = "Profile updated."
	msgSymptomSaved   = "I've noted this in your health diary."
	msgMeasureSaved   = "Saved to your health diary: %s"
	msgWorkoutLogged  = "Great job! Workout logged, +%d points. 💪"
	msgWorkoutAlready = "You've already logged a workout today. See you tomorrow!"
	msgMoodLogged     = "Mood noted, +%d points."
	msgScore          = "Your score: %d ⭐"
	msgNoProfile      = "You haven't filled in your profile yet."

	msgBreathing = "Box breathing 🌬️\n" +
		"1. Breathe in through your nose for 4 seconds.\n" +
		"2. Hold your breath for 4 seconds.\n" +
		"3. Breathe out slowly through your mouth for 4 seconds.\n" +
		"4. Hold for 4 seconds.\n" +
		"Repeat 4 to 6 rounds. Keep your shoulders relaxed."
)

// Fallback greetings used when the backend cannot produce one.
const msgPersonaFallback = "Hello! I'm your %s. How can I help?"
