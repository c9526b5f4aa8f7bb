package seed

import (
	"time"

	"github.com/gmviana11/fornecedor-conecta/internal/models"
)

func ts(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}

func str(v string) *string {
	return &v
}

// Credentials maps seeded login emails to their plaintext passwords.
func Credentials() map[string]string {
	return map[string]string{
		"admin@mxs.com":                    "admin123",
		"contato@equipamentossilva.com.br": "supplier123",
		"suporte@techsolutions.com.br":     "supplier123",
		"joao@email.com":                   "user123",
		"maria@email.com":                  "user123",
	}
}

func Suppliers() []models.Supplier {
	return []models.Supplier{
		{
			ID:          "1",
			Name:        "Equipamentos Gastronômicos Silva",
			Category:    "Equipamentos de Cozinha",
			Description: "Fornecemos equipamentos industriais de alta qualidade para cozinhas de restaurantes e lanchonetes. Fogões industriais, chapas, fritadeiras, fornos e muito mais.",
			Phone:       "(11) 98765-4321",
			Email:       "contato@equipamentossilva.com.br",
			Website:     str("https://equipamentossilva.com.br"),
			Address:     "Rua das Indústrias, 123 - Bairro Industrial, São Paulo - SP, 01234-567",
			Status:      models.SupplierStatusApproved,
			CreatedAt:   ts("2024-01-15T10:30:00Z"),
			UpdatedAt:   ts("2024-01-16T14:20:00Z"),
			Comments: []models.Comment{{
				ID:        "c1",
				Text:      "Fornecedor confiável, produtos de ótima qualidade.",
				Author:    "Admin",
				CreatedAt: ts("2024-01-16T14:20:00Z"),
			}},
		},
		{
			ID:          "2",
			Name:        "Móveis Corporativos Premium",
			Category:    "Móveis e Decoração",
			Description: "Especializada em móveis corporativos sob medida. Mesas, cadeiras, balcões, estantes e soluções personalizadas para franquias.",
			Phone:       "(11) 97654-3210",
			Email:       "vendas@moveispremium.com.br",
			Address:     "Av. Móveis, 456 - Centro, São Paulo - SP, 02345-678",
			Status:      models.SupplierStatusPending,
			CreatedAt:   ts("2024-01-20T09:15:00Z"),
			UpdatedAt:   ts("2024-01-20T09:15:00Z"),
			Comments:    []models.Comment{},
		},
		{
			ID:          "3",
			Name:        "TechSolutions Franquias",
			Category:    "Tecnologia e Informática",
			Description: "Soluções completas de tecnologia para franquias: sistemas de PDV, equipamentos, redes, suporte técnico e consultoria em TI.",
			Phone:       "(11) 96543-2109",
			Email:       "suporte@techsolutions.com.br",
			Website:     str("https://techsolutions.com.br"),
			Address:     "Rua da Tecnologia, 789 - Vila Tech, São Paulo - SP, 03456-789",
			Status:      models.SupplierStatusApproved,
			CreatedAt:   ts("2024-01-18T16:45:00Z"),
			UpdatedAt:   ts("2024-01-19T11:30:00Z"),
			Comments: []models.Comment{{
				ID:        "c2",
				Text:      "Excelente suporte técnico e soluções inovadoras.",
				Author:    "Admin",
				CreatedAt: ts("2024-01-19T11:30:00Z"),
			}},
		},
		{
			ID:          "4",
			Name:        "Uniformes & Cia",
			Category:    "Uniformes e Vestuário",
			Description: "Confecção de uniformes profissionais personalizados. Aventais, camisetas, bonés e acessórios com a identidade visual da sua franquia.",
			Phone:       "(11) 95432-1098",
			Email:       "pedidos@uniformesecia.com.br",
			Address:     "Rua das Confecções, 321 - Bom Retiro, São Paulo - SP, 04567-890",
			Status:      models.SupplierStatusRejected,
			CreatedAt:   ts("2024-01-12T13:20:00Z"),
			UpdatedAt:   ts("2024-01-13T08:45:00Z"),
			Comments: []models.Comment{{
				ID:        "c3",
				Text:      "Prazo de entrega não compatível com nossas necessidades.",
				Author:    "Admin",
				CreatedAt: ts("2024-01-13T08:45:00Z"),
			}},
		},
		{
			ID:          "5",
			Name:        "Clean Master Produtos",
			Category:    "Limpeza e Higiene",
			Description: "Linha completa de produtos de limpeza e higiene para estabelecimentos comerciais. Detergentes, desinfetantes, papel higiênico e equipamentos de limpeza.",
			Phone:       "(11) 94321-0987",
			Email:       "comercial@cleanmaster.com.br",
			Website:     str("https://cleanmaster.com.br"),
			Address:     "Av. Limpeza, 654 - Distrito Industrial, São Paulo - SP, 05678-901",
			Status:      models.SupplierStatusHidden,
			CreatedAt:   ts("2024-01-10T11:00:00Z"),
			UpdatedAt:   ts("2024-01-22T15:30:00Z"),
			Comments: []models.Comment{{
				ID:        "c4",
				Text:      "Fornecedor temporariamente suspenso para reavaliação.",
				Author:    "Admin",
				CreatedAt: ts("2024-01-22T15:30:00Z"),
			}},
		},
	}
}

func Users() []models.User {
	return []models.User{
		{ID: "1", Name: "Admin MXS", Email: "admin@mxs.com", Type: models.UserTypeSuperAdmin, CreatedAt: ts("2024-01-01T00:00:00Z")},
		{ID: "2", Name: "Equipamentos Silva", Email: "contato@equipamentossilva.com.br", Type: models.UserTypeSupplier, SupplierID: str("1"), CreatedAt: ts("2024-01-10T00:00:00Z")},
		{ID: "3", Name: "TechSolutions", Email: "suporte@techsolutions.com.br", Type: models.UserTypeSupplier, SupplierID: str("3"), CreatedAt: ts("2024-01-15T00:00:00Z")},
		{ID: "4", Name: "João Silva", Email: "joao@email.com", Type: models.UserTypeUser, CreatedAt: ts("2024-01-20T00:00:00Z")},
		{ID: "5", Name: "Maria Santos", Email: "maria@email.com", Type: models.UserTypeUser, CreatedAt: ts("2024-01-22T00:00:00Z")},
	}
}

func ServiceRequests() []models.ServiceRequest {
	return []models.ServiceRequest{
		{
			ID:           "1",
			UserID:       "4",
			UserName:     "João Silva",
			SupplierID:   "1",
			SupplierName: "Equipamentos Gastronômicos Silva",
			Category:     "Equipamentos de Cozinha",
			Title:        "Fogão Industrial para Lanchonete",
			Description:  "Preciso de um fogão industrial de 4 bocas para uma lanchonete de 30m²",
			Budget:       str("R$ 3.000 - R$ 5.000"),
			Status:       models.ServiceStatusResponded,
			CreatedAt:    ts("2024-01-25T10:00:00Z"),
			UpdatedAt:    ts("2024-01-26T14:30:00Z"),
			SupplierResponse: &models.SupplierResponse{
				Message:     "Temos o modelo perfeito para seu negócio! Fogão industrial de 4 bocas com forno, ideal para lanchonetes.",
				Price:       str("R$ 4.200,00"),
				Timeline:    str("3-5 dias úteis para entrega"),
				RespondedAt: ts("2024-01-26T14:30:00Z"),
			},
		},
		{
			ID:           "2",
			UserID:       "5",
			UserName:     "Maria Santos",
			SupplierID:   "3",
			SupplierName: "TechSolutions Franquias",
			Category:     "Tecnologia e Informática",
			Title:        "Sistema de PDV Completo",
			Description:  "Busco um sistema de PDV com gestão de estoque e relatórios para minha padaria",
			Budget:       str("R$ 2.000 - R$ 8.000"),
			Status:       models.ServiceStatusCompleted,
			CreatedAt:    ts("2024-01-20T09:15:00Z"),
			UpdatedAt:    ts("2024-01-28T16:00:00Z"),
			SupplierResponse: &models.SupplierResponse{
				Message:     "Nossa solução completa de PDV é perfeita para padarias. Inclui gestão de estoque, relatórios e suporte.",
				Price:       str("R$ 6.800,00"),
				Timeline:    str("1 semana para instalação completa"),
				RespondedAt: ts("2024-01-21T11:20:00Z"),
			},
			Rating: &models.Rating{
				Stars:   5,
				Comment: "Excelente serviço! Sistema muito bom e suporte impecável.",
				RatedAt: ts("2024-01-28T16:00:00Z"),
			},
		},
		{
			ID:           "3",
			UserID:       "4",
			UserName:     "João Silva",
			SupplierID:   "1",
			SupplierName: "Equipamentos Gastronômicos Silva",
			Category:     "Equipamentos de Cozinha",
			Title:        "Chapa para Hambúrguer",
			Description:  "Chapa elétrica ou a gás para preparo de hambúrgueres",
			Status:       models.ServiceStatusPending,
			CreatedAt:    ts("2024-01-28T15:00:00Z"),
			UpdatedAt:    ts("2024-01-28T15:00:00Z"),
		},
	}
}
