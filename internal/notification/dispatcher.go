package notification

import "log"

// Dispatcher desacopla o envio da transição que o disparou: entrega é
// best-effort e nunca bloqueia nem falha a mutação da entidade
type Dispatcher struct {
	notifier *Notifier
	queue    chan Message
}

func NewDispatcher(notifier *Notifier) *Dispatcher {
	d := &Dispatcher{
		notifier: notifier,
		queue:    make(chan Message, 200),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for m := range d.queue {
		if err := d.notifier.Send(m); err != nil {
			log.Println("notification error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(m Message) {
	select {
	case d.queue <- m:
		// enviado
	default:
		// fila cheia → descartamos (nunca quebrar API)
		log.Println("notification queue full, dropping message")
	}
}
