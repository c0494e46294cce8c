package domain

// Lesson minimal read model of a lesson row owned by the course system
type Lesson struct {
	ID      string `gorm:"primaryKey"`
	Title   string
	ClassID string
}

// Class minimal read model of a class row owned by the course system
type Class struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	TeacherID string
}

// LessonOwner resolved lesson -> class -> teacher chain used for notification
type LessonOwner struct {
	LessonID    string
	LessonTitle string
	ClassID     string
	ClassName   string
	TeacherID   string
}
