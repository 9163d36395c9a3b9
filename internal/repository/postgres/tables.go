package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-records/internal/mapper"
	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
)

var (
	evaluationColumns = []string{
		"paciente_id", "profissional_id", "nome_completo", "idade", "naturalidade",
		"estado_civil", "genero", "profissao", "endereco_residencial", "endereco_comercial",
		"local", "data_avaliacao", "queixa_principal", "historia_pregressa_e_atual_da_doenca",
		"habitos_de_vida", "tratamentos_realizados", "antecedentes_pessoais_e_familiares",
		"outros", "exames_complementares", "objetivos", "qtd_atendimentos_provaveis", "procedimentos",
	}
	evolutionColumns = []string{
		"paciente_id", "profissional_id", "data_evolucao", "hora_evolucao", "numero_sessao",
		"procedimentos", "intercorrencias", "evolucao_estado_saude",
	}
)

func with(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return newTable[model.Patient](db, "pacientes", "patient",
		"nome", "data_nascimento", "sexo", "cpf", "telefone", "email", "endereco", "observacoes", "status")
}

func NewProfessionalRepository(db *sqlx.DB) repository.ProfessionalRepository {
	return newTable[mapper.ProfessionalRow](db, "profissionais", "professional",
		"nome", "email", "telefone", "crefito", "funcao")
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return newTable[mapper.AppointmentRow](db, "atendimentos", "appointment",
		"paciente_id", "profissional_id", "data_hora", "local", "tipo", "status", "sinais_vitais", "soap")
}

func NewPhysioEvaluationRepository(db *sqlx.DB) repository.PhysioEvaluationRepository {
	return newTable[mapper.PhysioEvaluationRow](db, "avaliacoes_fisio", "evaluation",
		with(evaluationColumns,
			"exame_clinico_fisico", "diagnostico_fisioterapeutico", "prognostico",
			"nome_fisioterapeuta", "crefito_fisioterapeuta", "nome_academico_estagiario",
			"assinatura_digital_fisioterapeuta", "assinatura_digital_estagiario")...)
}

func NewOTEvaluationRepository(db *sqlx.DB) repository.OTEvaluationRepository {
	return newTable[mapper.OTEvaluationRow](db, "avaliacoes_to", "evaluation",
		with(evaluationColumns,
			"exame_clinico_fisico_educacional_social", "diagnostico_terapeutico_ocupacional",
			"prognostico_terapeutico_ocupacional", "nome_terapeuta_ocupacional",
			"crefito_terapeuta_ocupacional", "nome_academico_estagiario_to",
			"assinatura_digital_terapeuta", "assinatura_digital_estagiario")...)
}

func NewPhysioEvolutionRepository(db *sqlx.DB) repository.PhysioEvolutionRepository {
	return newTable[mapper.PhysioEvolutionRow](db, "evolucoes_fisio", "evolution",
		with(evolutionColumns, "nome_fisioterapeuta", "crefito_fisioterapeuta", "nome_academico_estagiario")...)
}

func NewOTEvolutionRepository(db *sqlx.DB) repository.OTEvolutionRepository {
	return newTable[mapper.OTEvolutionRow](db, "evolucoes_to", "evolution",
		with(evolutionColumns, "nome_terapeuta_ocupacional", "crefito_terapeuta_ocupacional", "nome_academico_estagiario_to")...)
}

// NewRepositories wires every clinic collection to db.
func NewRepositories(db *sqlx.DB) repository.Repositories {
	return repository.Repositories{
		Patients:          NewPatientRepository(db),
		Professionals:     NewProfessionalRepository(db),
		Appointments:      NewAppointmentRepository(db),
		PhysioEvaluations: NewPhysioEvaluationRepository(db),
		OTEvaluations:     NewOTEvaluationRepository(db),
		PhysioEvolutions:  NewPhysioEvolutionRepository(db),
		OTEvolutions:      NewOTEvolutionRepository(db),
	}
}
