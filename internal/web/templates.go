package web

import "html/template"

var loginTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>TravHouse Bot Admin</title>
    <style>
        body { font-family: 'Segoe UI', Arial, sans-serif; background: linear-gradient(135deg, #2a2a40, #4a4a60); margin: 0; padding: 50px; color: white; }
        .container { max-width: 400px; margin: 0 auto; background: rgba(255,255,255,0.1); padding: 40px; border-radius: 15px; backdrop-filter: blur(10px); }
        h1 { text-align: center; color: #00ffff; text-shadow: 0 0 20px rgba(0,255,255,0.5); }
        input { width: 100%; padding: 15px; margin: 10px 0; border: none; border-radius: 8px; background: rgba(255,255,255,0.2); color: white; font-size: 16px; }
        input::placeholder { color: rgba(255,255,255,0.7); }
        button { width: 100%; padding: 15px; background: linear-gradient(45deg, #00ffff, #0080ff); border: none; border-radius: 8px; color: white; font-size: 16px; cursor: pointer; font-weight: bold; }
    </style>
</head>
<body>
    <div class="container">
        <h1>🤖 TravHouse Bot</h1>
        <h2 style="text-align: center; margin-bottom: 30px;">Админ панель</h2>
        {{if .Error}}
        <div style="color: #ff6b6b; text-align: center; margin-bottom: 20px;">{{.Error}}</div>
        {{end}}
        <form method="POST" action="/login">
            <input type="text" name="username" placeholder="Логин" required>
            <input type="password" name="password" placeholder="Пароль" required>
            <button type="submit">Войти</button>
        </form>
    </div>
</body>
</html>
`))

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>TravHouse Bot Dashboard</title>
    <style>
        body { font-family: 'Segoe UI', Arial, sans-serif; background: linear-gradient(135deg, #2a2a40, #4a4a60); margin: 0; padding: 0; color: white; }
        .header { background: rgba(0,0,0,0.3); padding: 20px; display: flex; justify-content: space-between; align-items: center; }
        .container { padding: 20px; max-width: 1200px; margin: 0 auto; }
        .stats-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(250px, 1fr)); gap: 20px; margin-bottom: 30px; }
        .stat-card { background: rgba(255,255,255,0.1); padding: 20px; border-radius: 15px; text-align: center; backdrop-filter: blur(10px); }
        .stat-number { font-size: 2rem; color: #00ffff; font-weight: bold; text-shadow: 0 0 10px rgba(0,255,255,0.5); }
        .applications { background: rgba(255,255,255,0.1); border-radius: 15px; padding: 20px; backdrop-filter: blur(10px); }
        .app-item { background: rgba(255,255,255,0.1); margin: 10px 0; padding: 15px; border-radius: 10px; display: flex; justify-content: space-between; align-items: center; }
        .btn { padding: 8px 15px; border: none; border-radius: 5px; cursor: pointer; font-weight: bold; text-decoration: none; display: inline-block; }
        .btn-success { background: #4CAF50; color: white; }
        .btn-danger { background: #f44336; color: white; }
        .btn-info { background: #2196F3; color: white; }
        .logout { color: #ff6b6b; text-decoration: none; }
    </style>
</head>
<body>
    <div class="header">
        <h1>🤖 TravHouse Bot Dashboard</h1>
        <a href="/logout" class="logout">Выйти</a>
    </div>

    <div class="container">
        <div class="stats-grid">
            <div class="stat-card">
                <div class="stat-number">{{.Stats.Total}}</div>
                <div>Подано заявок</div>
            </div>
            <div class="stat-card">
                <div class="stat-number">{{.Stats.Pending}}</div>
                <div>Ожидают проверки</div>
            </div>
            <div class="stat-card">
                <div class="stat-number">{{.Stats.Approved}}</div>
                <div>Одобрено</div>
            </div>
            <div class="stat-card">
                <div class="stat-number">{{.Stats.Rejected}}</div>
                <div>Отклонено</div>
            </div>
        </div>

        <div class="applications">
            <h2>📝 Последние заявки</h2>
            {{range .Applications}}
            <div class="app-item">
                <div>
                    <strong>{{.Name}}</strong> ({{.Nickname}})<br>
                    <small>{{.Age}}, {{.Telegram}}</small>
                </div>
                <div>
                    {{if .Pending}}
                    <a href="/approve/{{.ID}}" class="btn btn-success">✅ Одобрить</a>
                    <a href="/reject/{{.ID}}" class="btn btn-danger">❌ Отклонить</a>
                    {{else}}
                    <span class="btn btn-info">{{.StatusLabel}}</span>
                    {{end}}
                </div>
            </div>
            {{else}}
            <div class="app-item"><div>Заявок пока нет</div></div>
            {{end}}
        </div>
    </div>
</body>
</html>
`))
