package confidence

import "math"

// Frame представляет один кадр видео в формате, понятном моделям
type Frame interface{}

// Point представляет точку лицевой разметки
type Point struct {
	X float64
	Y float64
}

// Face представляет ключевые точки найденного лица
type Face struct {
	LeftEye          Point
	RightEye         Point
	NoseTip          Point
	MouthCornerLeft  Point
	MouthCornerRight Point
	MouthTop         Point
	MouthBottom      Point
}

// Keypoint представляет точку позы с оценкой достоверности
type Keypoint struct {
	X     float64
	Y     float64
	Score float64
}

// Pose представляет ключевые точки позы
type Pose struct {
	LeftShoulder  Keypoint
	RightShoulder Keypoint
	Nose          Keypoint
}

// FaceModel находит лицо в кадре. nil без ошибки — лицо не найдено
type FaceModel interface {
	EstimateFace(frame Frame) (*Face, error)
}

// PoseModel находит позу в кадре. nil без ошибки — поза не найдена
type PoseModel interface {
	EstimatePose(frame Frame) (*Pose, error)
}

// ModelProvider загружает перцептивные модели.
// Загрузка может не удаться — sampler обязан работать и без моделей
type ModelProvider interface {
	LoadFaceModel() (FaceModel, error)
	LoadPoseModel() (PoseModel, error)
}

const neutralScore = 50

// faceScore оценивает уверенность по лицу: контакт глазами,
// выражение лица и положение головы поверх базовых 70 баллов
func faceScore(face *Face) int {
	if face == nil {
		return neutralScore
	}

	score := 70
	score += eyeContactScore(face)
	score += expressionScore(face)
	score += headPositionScore(face)

	return clamp(score, 0, 100)
}

func eyeContactScore(face *Face) int {
	eyeLevel := math.Abs(face.LeftEye.Y - face.RightEye.Y)
	eyeDistance := math.Abs(face.LeftEye.X - face.RightEye.X)

	switch {
	case eyeLevel < 10 && eyeDistance > 30:
		return 15
	case eyeLevel < 20:
		return 5
	default:
		return -10
	}
}

func expressionScore(face *Face) int {
	mouthWidth := math.Abs(face.MouthCornerLeft.X - face.MouthCornerRight.X)
	mouthHeight := math.Abs(face.MouthTop.Y - face.MouthBottom.Y)

	// Уголки рта выше верхней губы — легкая улыбка
	if face.MouthCornerLeft.Y < face.MouthTop.Y && face.MouthCornerRight.Y < face.MouthTop.Y {
		return 10
	}
	if mouthHeight < mouthWidth*0.3 {
		return 5
	}
	return -5
}

func headPositionScore(face *Face) int {
	dx := face.RightEye.X - face.LeftEye.X
	if dx == 0 {
		return -10
	}
	slope := (face.RightEye.Y - face.LeftEye.Y) / dx
	tilt := math.Abs(math.Atan(slope) * 180 / math.Pi)

	switch {
	case tilt < 10:
		return 10
	case tilt < 20:
		return 0
	default:
		return -10
	}
}

// postureScore оценивает уверенность по позе: положение плеч
// и стабильность поверх базовых 70 баллов
func postureScore(pose *Pose) int {
	if pose == nil {
		return neutralScore
	}

	score := 70
	score += shoulderScore(pose)
	score += stabilityScore(pose)

	return clamp(score, 0, 100)
}

func shoulderScore(pose *Pose) int {
	if pose.LeftShoulder.Score < 0.5 || pose.RightShoulder.Score < 0.5 {
		return 0
	}

	diff := math.Abs(pose.LeftShoulder.Y - pose.RightShoulder.Y)
	switch {
	case diff < 20:
		return 15
	case diff < 40:
		return 5
	default:
		return -10
	}
}

func stabilityScore(pose *Pose) int {
	if pose.Nose.Score < 0.5 {
		return 0
	}
	return 10
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
