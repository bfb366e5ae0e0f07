package remote

import (
	"cantinho/internal/money"
	"cantinho/internal/schedule"
)

type StudentStatus string

const (
	StudentActive   StudentStatus = "ATIVO"
	StudentInactive StudentStatus = "INATIVO"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "PAGO"
	PaymentPending PaymentStatus = "PENDENTE"
	PaymentOverdue PaymentStatus = "ATRASADO"
)

type MaterialType string

const (
	MaterialPDF   MaterialType = "PDF"
	MaterialImage MaterialType = "IMAGEM"
)

type User struct {
	ID    int    `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
}

type Student struct {
	ID            int           `json:"id"`
	Name          string        `json:"nome"`
	Status        StudentStatus `json:"status"`
	EnrolledAt    string        `json:"dataMatricula"`
	GuardianName  string        `json:"nomeResponsavel"`
	GuardianPhone *string       `json:"telefoneResponsavel"`
	MonthlyFee    money.Money   `json:"mensalidade"`
	PaymentStatus PaymentStatus `json:"statusPagamento"`
	Notes         string        `json:"observacao,omitempty"`
}

type StudentInput struct {
	Name          string      `json:"nome" validate:"required,min=3,max=100"`
	GuardianName  string      `json:"nomeResponsavel" validate:"required,min=3,max=100"`
	GuardianPhone string      `json:"telefoneResponsavel" validate:"required,min=10,max=20,phone"`
	MonthlyFee    money.Money `json:"mensalidade" validate:"gt=0"`
	Notes         string      `json:"observacao,omitempty" validate:"max=500"`
}

// StudentUpdate is a partial update; nil fields are left untouched.
type StudentUpdate struct {
	Name          *string        `json:"nome,omitempty" validate:"omitempty,min=3,max=100"`
	GuardianName  *string        `json:"nomeResponsavel,omitempty" validate:"omitempty,min=3,max=100"`
	GuardianPhone *string        `json:"telefoneResponsavel,omitempty" validate:"omitempty,min=10,max=20,phone"`
	MonthlyFee    *money.Money   `json:"mensalidade,omitempty" validate:"omitempty,gt=0"`
	Notes         *string        `json:"observacao,omitempty" validate:"omitempty,max=500"`
	Status        *StudentStatus `json:"status,omitempty" validate:"omitempty,oneof=ATIVO INATIVO"`
}

type StudentRef struct {
	ID   int    `json:"id"`
	Name string `json:"nome"`
}

// Class is a weekly recurring slot. End is always Start plus one hour.
type Class struct {
	ID        int                `json:"id"`
	Day       schedule.DayOfWeek `json:"diaSemana"`
	Start     string             `json:"horarioInicio"`
	End       string             `json:"horarioFim"`
	Notes     string             `json:"observacoes,omitempty"`
	Students  []StudentRef       `json:"alunos"`
	TeacherID int                `json:"professorId"`
}

// ClassInput carries everything a caller may choose when booking a class.
// The end time is not part of it: the client derives horarioFim on encode.
type ClassInput struct {
	Day        schedule.DayOfWeek `json:"diaSemana" validate:"required,weekday"`
	Start      string             `json:"horarioInicio" validate:"required,slot_start"`
	StudentIDs []int              `json:"alunosIds" validate:"dive,gt=0"`
	Notes      string             `json:"observacoes,omitempty" validate:"max=500"`
}

type Payment struct {
	ID             int           `json:"id"`
	StudentID      int           `json:"alunoId"`
	Student        StudentRef    `json:"aluno"`
	ReferenceMonth string        `json:"mesReferencia"`
	DueDate        string        `json:"dataVencimento"`
	Amount         money.Money   `json:"valor"`
	Status         PaymentStatus `json:"status"`
	PaidAt         *string       `json:"dataPagamento"`
}

type PaymentInput struct {
	StudentID      int           `json:"alunoId" validate:"required,gt=0"`
	ReferenceMonth string        `json:"mesReferencia" validate:"required"`
	DueDate        string        `json:"dataVencimento" validate:"required"`
	Amount         money.Money   `json:"valor" validate:"gt=0"`
	Status         PaymentStatus `json:"status,omitempty" validate:"omitempty,oneof=PAGO PENDENTE ATRASADO"`
	// PaidAt is sent as null to clear it.
	PaidAt *string `json:"dataPagamento"`
}

type Subject struct {
	ID   int    `json:"id"`
	Name string `json:"nome"`
}

type Material struct {
	ID        int          `json:"id"`
	Title     string       `json:"titulo"`
	Type      MaterialType `json:"tipo"`
	FileURL   string       `json:"urlArquivo"`
	Downloads int          `json:"totalDownloads"`
	SubjectID int          `json:"materiaId"`
	Subject   *Subject     `json:"materia,omitempty"`
	CreatedAt string       `json:"createdAt"`
}

type MaterialUpload struct {
	Title     string       `validate:"required,min=3,max=200"`
	Type      MaterialType `validate:"required,oneof=PDF IMAGEM"`
	SubjectID int          `validate:"required,gt=0"`
	Filename  string       `validate:"required"`
	Content   []byte       `validate:"required"`
}
