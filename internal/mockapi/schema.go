package mockapi

// schema mirrors the backend resources closely enough for local runs.
const schema = `
CREATE TABLE IF NOT EXISTS usuarios (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	nome       TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS livros (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	usuario_id         INTEGER NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE,
	titulo             TEXT NOT NULL,
	autor              TEXT NOT NULL,
	genero             TEXT,
	imagem_url         TEXT,
	tempo_leitura_dias INTEGER NOT NULL DEFAULT 1,
	estrelas           INTEGER NOT NULL DEFAULT 1,
	coracoes           INTEGER NOT NULL DEFAULT 0,
	fogos              INTEGER NOT NULL DEFAULT 0,
	humor              INTEGER NOT NULL DEFAULT 0,
	favorito           INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_livros_usuario ON livros(usuario_id);

CREATE TABLE IF NOT EXISTS metas_leitura (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	usuario_id          INTEGER NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE,
	ano                 INTEGER NOT NULL,
	quantidade_objetivo INTEGER NOT NULL,
	UNIQUE (usuario_id, ano)
);

CREATE TABLE IF NOT EXISTS desafios_az (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	usuario_id INTEGER NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE,
	ano        INTEGER NOT NULL,
	UNIQUE (usuario_id, ano)
);

CREATE TABLE IF NOT EXISTS desafio_letras (
	desafio_id   INTEGER NOT NULL REFERENCES desafios_az(id) ON DELETE CASCADE,
	letra        TEXT NOT NULL,
	titulo_livro TEXT NOT NULL DEFAULT '',
	completado   INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (desafio_id, letra)
);

CREATE TABLE IF NOT EXISTS calendario_meses (
	usuario_id        INTEGER NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE,
	ano               INTEGER NOT NULL,
	mes               INTEGER NOT NULL CHECK (mes BETWEEN 1 AND 12),
	quantidade_livros INTEGER NOT NULL DEFAULT 0 CHECK (quantidade_livros >= 0),
	PRIMARY KEY (usuario_id, ano, mes)
);

CREATE TABLE IF NOT EXISTS proximas_leituras (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	usuario_id  INTEGER NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE,
	titulo      TEXT NOT NULL,
	image_url   TEXT,
	complemento TEXT,
	prioridade  INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_proximas_usuario ON proximas_leituras(usuario_id);
`
