package transcribe

// Result представляет одно событие распознавания речи
type Result struct {
	Text    string
	IsFinal bool
}

// Recognizer представляет непрерывный движок распознавания речи.
// Start начинает захват и возвращает поток событий; поток закрывается,
// когда распознавание завершилось — после Stop или самостоятельно,
// если движок решил остановиться сам
type Recognizer interface {
	Start() (<-chan Result, error)
	Stop()
}
