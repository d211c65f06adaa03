// Package flashmsg содержит тексты flash-сообщений для HTML-страниц,
// общие для нескольких обработчиков.
package flashmsg

const (
	MissingFields     = "Preencha todos os campos obrigatórios."
	InvalidFields     = "Dados inválidos: verifique o tamanho dos campos."
	DuplicateUsername = "Nome de usuário já existe!"
	DuplicateEmail    = "Email já cadastrado!"
	CreateFailed      = "Erro ao criar conta!"
	BadRequest        = "Requisição inválida."
)

// UserCreated — сообщение об успешном создании пользователя администратором.
func UserCreated(username string) string {
	return "Usuário " + username + " criado com sucesso!"
}
