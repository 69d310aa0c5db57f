package mail

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(m Message) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(host string, port int, user, pass, from string) *SMTPSender {
	if from == "" {
		from = user
	}
	return &SMTPSender{dialer: gomail.NewDialer(host, port, user, pass), from: from}
}

func (s *SMTPSender) Send(m Message) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Body)
	return s.dialer.DialAndSend(msg)
}

// Welcome 注册欢迎邮件
func Welcome(appName, email, name string) Message {
	return Message{
		To:      email,
		Subject: fmt.Sprintf("Welcome to %s!", appName),
		Body:    fmt.Sprintf("Hello %s, welcome to %s!", name, appName),
	}
}

// Outbox 异步发信队列。投递失败只记日志，
// 不回传给调用方（注册主流程不被邮件拖垮）。
type Outbox struct {
	ch     chan Message
	sender Sender
	log    *zap.Logger
	wg     sync.WaitGroup
	once   sync.Once
}

func NewOutbox(s Sender, log *zap.Logger, buffer int) *Outbox {
	if buffer <= 0 {
		buffer = 64
	}
	o := &Outbox{
		ch:     make(chan Message, buffer),
		sender: s,
		log:    log,
	}
	o.wg.Add(1)
	go o.run()
	return o
}

func (o *Outbox) run() {
	defer o.wg.Done()
	for m := range o.ch {
		if err := o.sender.Send(m); err != nil {
			o.log.Warn("mail send failed",
				zap.String("to", m.To),
				zap.String("subject", m.Subject),
				zap.Error(err),
			)
		}
	}
}

// Enqueue 非阻塞入队，队列满则丢弃并记日志
func (o *Outbox) Enqueue(m Message) {
	select {
	case o.ch <- m:
	default:
		o.log.Warn("mail outbox full, message dropped", zap.String("to", m.To))
	}
}

// Close 停止接收并等待队列清空
func (o *Outbox) Close() {
	o.once.Do(func() { close(o.ch) })
	o.wg.Wait()
}
